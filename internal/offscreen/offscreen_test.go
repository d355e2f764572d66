// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package offscreen

import (
	"errors"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageBuffer_ExactSize(t *testing.T) {
	b, err := NewImageBuffer(Options{Width: 800, Height: 600})
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, 800, b.Width())
	assert.Equal(t, 600, b.Height())
	assert.Equal(t, DefaultDepthBits, b.DepthBits())
	assert.Equal(t, FormatRGBA32, b.Format())
	assert.NotEmpty(t, b.ID())

	img, err := b.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestImageBuffer_SnapshotReadsCanvas(t *testing.T) {
	b, err := NewImageBuffer(Options{Width: 4, Height: 4})
	require.NoError(t, err)
	defer b.Close()

	b.Canvas().ClearWithColor(gg.RGB(1, 0, 0))
	img, err := b.Snapshot()
	require.NoError(t, err)
	c := img.RGBAAt(2, 2)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(255), c.A)
}

func TestImageBuffer_CloseIdempotent(t *testing.T) {
	b, err := NewImageBuffer(Options{Width: 2, Height: 2})
	require.NoError(t, err)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.True(t, b.Closed())
}

func TestImageBuffer_SnapshotAfterClose(t *testing.T) {
	b, err := NewImageBuffer(Options{Width: 2, Height: 2})
	require.NoError(t, err)
	require.NoError(t, b.Close())

	img, err := b.Snapshot()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, img)
}

// flakyAccel declines every draw and fails Flush while flushErr is set.
type flakyAccel struct{ flushErr error }

func (a *flakyAccel) Name() string                        { return "flaky" }
func (a *flakyAccel) Init() error                         { return nil }
func (a *flakyAccel) Close()                              {}
func (a *flakyAccel) CanAccelerate(gg.AcceleratedOp) bool { return false }
func (a *flakyAccel) FillPath(gg.GPURenderTarget, *gg.Path, *gg.Paint) error {
	return gg.ErrFallbackToCPU
}
func (a *flakyAccel) StrokePath(gg.GPURenderTarget, *gg.Path, *gg.Paint) error {
	return gg.ErrFallbackToCPU
}
func (a *flakyAccel) FillShape(gg.GPURenderTarget, gg.DetectedShape, *gg.Paint) error {
	return gg.ErrFallbackToCPU
}
func (a *flakyAccel) StrokeShape(gg.GPURenderTarget, gg.DetectedShape, *gg.Paint) error {
	return gg.ErrFallbackToCPU
}
func (a *flakyAccel) Flush(gg.GPURenderTarget) error { return a.flushErr }

func TestImageBuffer_SnapshotReportsFlushFailure(t *testing.T) {
	lost := errors.New("device lost")
	accel := &flakyAccel{flushErr: lost}
	require.NoError(t, gg.RegisterAccelerator(accel))
	// gg has no way to unregister; leave a harmless accelerator behind.
	t.Cleanup(func() { accel.flushErr = nil })

	b, err := NewImageBuffer(Options{Width: 2, Height: 2})
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Snapshot()
	assert.ErrorIs(t, err, lost)
}

func TestImageBuffer_InvalidSize(t *testing.T) {
	_, err := NewImageBuffer(Options{Width: 0, Height: 10})
	var se *SizeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Width)
}

func TestRegistry_PriorityOrder(t *testing.T) {
	r := NewDefaultRegistry()
	var used string
	r.Register("fast", 100, func(opts Options) (Buffer, error) {
		used = "fast"
		return NewImageBuffer(opts)
	}, nil)
	r.Register("offline", 200, nil, func() bool { return false })

	assert.Equal(t, []string{"fast", "software"}, r.Available())

	b, err := r.New(Options{Width: 1, Height: 1})
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, "fast", used)
}

func TestRegistry_FallsThrough(t *testing.T) {
	r := NewDefaultRegistry()
	r.Register("broken", 100, func(Options) (Buffer, error) {
		return nil, errors.New("device lost")
	}, nil)

	b, err := r.New(Options{Width: 3, Height: 2})
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, 3, b.Width())
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()
	_, err := r.New(Options{Width: 1, Height: 1})
	assert.ErrorIs(t, err, ErrNoBackend)

	_, err = r.NewByName("vulkan", Options{})
	var nf *BackendNotFoundError
	assert.True(t, errors.As(err, &nf))

	r.Register("off", 1, nil, func() bool { return false })
	_, err = r.NewByName("off", Options{})
	var un *BackendUnavailableError
	assert.True(t, errors.As(err, &un))

	r.Unregister("off")
	assert.Empty(t, r.Available())
}
