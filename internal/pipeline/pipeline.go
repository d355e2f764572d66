// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pipeline renders a camera into an offscreen buffer and writes the
// result as a PNG file.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/scenecap/editor"
	"github.com/gogpu/scenecap/internal/offscreen"
)

// DefaultBackdrop is the solid background template captures render over.
var DefaultBackdrop = color.RGBA{R: 49, G: 49, B: 49, A: 255}

// Result is one encoded capture.
type Result struct {
	Bytes  []byte
	Path   string
	Width  int
	Height int
}

// Option configures a single Capture call.
type Option func(*captureOptions)

type captureOptions struct {
	backdrop *color.RGBA
}

// WithBackdrop forces the camera to clear to c over every layer for the
// duration of the capture.
func WithBackdrop(c color.RGBA) Option {
	return func(o *captureOptions) { o.backdrop = &c }
}

// Pipeline owns nothing between captures; every call allocates and releases
// its own buffer.
type Pipeline struct {
	cams     editor.CameraService
	renderer editor.Renderer
	buffers  *offscreen.Registry
	log      *slog.Logger
}

// New returns a Pipeline drawing through renderer into buffers from reg.
func New(cams editor.CameraService, renderer editor.Renderer, reg *offscreen.Registry, log *slog.Logger) *Pipeline {
	return &Pipeline{cams: cams, renderer: renderer, buffers: reg, log: log}
}

// Capture renders camera once at width x height and writes a PNG to path,
// creating its directory. The camera's state is restored and the buffer
// released before Capture returns, whatever the outcome. A file written
// before a later failure stays on disk.
func (p *Pipeline) Capture(ctx context.Context, camera editor.NodeID, width, height int, path string, opts ...Option) (res *Result, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, &editor.ArgumentError{Name: "size", Value: fmt.Sprintf("%dx%d", width, height)}
	}
	var o captureOptions
	for _, opt := range opts {
		opt(&o)
	}

	buf, err := p.buffers.New(offscreen.Options{
		Width:     width,
		Height:    height,
		DepthBits: offscreen.DefaultDepthBits,
		Format:    offscreen.FormatRGBA32,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: allocate buffer: %w", errors.Join(editor.ErrRenderUnavailable, err))
	}
	defer func() {
		if cerr := buf.Close(); cerr != nil {
			p.log.Warn("pipeline: release buffer", "err", cerr)
		}
	}()

	orig, err := p.cams.State(camera)
	if err != nil {
		return nil, err
	}
	work := orig
	work.Target = buf.ID()
	if o.backdrop != nil {
		work.Clear = editor.ClearSolid
		work.Background = *o.backdrop
		work.CullingMask = editor.AllLayers
	}
	if err := p.cams.SetState(camera, work); err != nil {
		return nil, err
	}
	defer func() {
		if rerr := p.cams.SetState(camera, orig); rerr != nil {
			p.log.Warn("pipeline: restore camera", "camera", camera, "err", rerr)
			err = errors.Join(err, rerr)
		}
	}()

	if err := p.renderer.Render(camera, buf); err != nil {
		return nil, fmt.Errorf("pipeline: render: %w", err)
	}

	img, err := buf.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("pipeline: readback: %w", err)
	}
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("pipeline: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil { //nolint:gosec // captures are meant to be readable
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	p.log.Debug("pipeline: wrote capture", "path", path, "width", width, "height", height, "bytes", out.Len())
	return &Result{Bytes: out.Bytes(), Path: path, Width: width, Height: height}, nil
}
