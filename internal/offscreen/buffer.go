// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package offscreen

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// Format is the color layout of a buffer.
type Format int

const (
	// FormatRGBA32 is 8 bits per channel, 4 channels, non-premultiplied.
	FormatRGBA32 Format = iota
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatRGBA32 {
		return "RGBA32"
	}
	return "unknown"
}

// DefaultDepthBits is the depth precision every capture requests.
const DefaultDepthBits = 24

// Options describes the buffer to allocate.
type Options struct {
	Width     int
	Height    int
	DepthBits int
	Format    Format
}

// Buffer is an offscreen color target a camera can be bound to.
//
// Buffers are not safe for concurrent use. Close is idempotent; a closed
// buffer must not be drawn to or read.
type Buffer interface {
	// ID is a unique binding key for camera targets.
	ID() string

	Width() int
	Height() int
	DepthBits() int
	Format() Format

	// Canvas is the drawing context renderers draw into.
	Canvas() *gg.Context

	// Snapshot reads the full buffer back into a new CPU-side image.
	Snapshot() (*image.RGBA, error)

	Close() error
}

// ImageBuffer is the software Buffer backed by a gg.Context.
type ImageBuffer struct {
	id     string
	depth  int
	format Format
	dc     *gg.Context
	closed bool
}

// NewImageBuffer allocates a software buffer of exactly width x height.
func NewImageBuffer(opts Options) (*ImageBuffer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, &SizeError{Width: opts.Width, Height: opts.Height}
	}
	if opts.DepthBits == 0 {
		opts.DepthBits = DefaultDepthBits
	}
	return &ImageBuffer{
		id:     uuid.NewString(),
		depth:  opts.DepthBits,
		format: opts.Format,
		dc:     gg.NewContext(opts.Width, opts.Height),
	}, nil
}

func (b *ImageBuffer) ID() string          { return b.id }
func (b *ImageBuffer) Width() int          { return b.dc.Width() }
func (b *ImageBuffer) Height() int         { return b.dc.Height() }
func (b *ImageBuffer) DepthBits() int      { return b.depth }
func (b *ImageBuffer) Format() Format      { return b.format }
func (b *ImageBuffer) Canvas() *gg.Context { return b.dc }

// ErrClosed is returned when a closed buffer is read.
var ErrClosed = errors.New("offscreen: buffer closed")

// Snapshot copies the canvas into a freshly allocated *image.RGBA after
// flushing pending accelerator work. The result does not alias the buffer.
func (b *ImageBuffer) Snapshot() (*image.RGBA, error) {
	if b.closed {
		return nil, ErrClosed
	}
	if err := b.dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("offscreen: flush: %w", err)
	}
	src := b.dc.Image()
	dst := image.NewRGBA(image.Rect(0, 0, b.Width(), b.Height()))
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst, nil
}

// Close releases the canvas.
func (b *ImageBuffer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.dc.Close()
}

// Closed reports whether Close has been called.
func (b *ImageBuffer) Closed() bool { return b.closed }
