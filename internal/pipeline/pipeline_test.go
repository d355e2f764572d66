// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/scenecap/editor"
	"github.com/gogpu/scenecap/editor/memedit"
	"github.com/gogpu/scenecap/internal/offscreen"
)

const fixture = `
main_camera: Main Camera
scene:
  - name: Main Camera
    position: [0, 0, -10]
    camera: {culling_mask: 0}
  - name: Crate
    mesh: {size: [2, 2, 2], color: "#00ff00"}
`

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// recording registers a software backend that remembers what it allocated.
func recording() (*offscreen.Registry, *[]*offscreen.ImageBuffer) {
	var made []*offscreen.ImageBuffer
	reg := offscreen.NewRegistry()
	reg.Register("recording", 1, func(opts offscreen.Options) (offscreen.Buffer, error) {
		b, err := offscreen.NewImageBuffer(opts)
		if err == nil {
			made = append(made, b)
		}
		return b, err
	}, nil)
	return reg, &made
}

func setup(t *testing.T) (*memedit.Editor, editor.NodeID) {
	t.Helper()
	e, err := memedit.Load(strings.NewReader(fixture))
	require.NoError(t, err)
	cam, ok := e.Find("Main Camera")
	require.True(t, ok)
	return e, cam
}

func TestCapture_ExactSize(t *testing.T) {
	e, cam := setup(t)
	reg, made := recording()
	p := New(e, e, reg, quiet)
	path := filepath.Join(t.TempDir(), "SceneCapture", "capture.png")

	res, err := p.Capture(context.Background(), cam, 800, 600, path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, res.Bytes, data)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)

	require.Len(t, *made, 1)
	b := (*made)[0]
	assert.True(t, b.Closed())
	assert.Equal(t, offscreen.DefaultDepthBits, b.DepthBits())
	assert.Equal(t, offscreen.FormatRGBA32, b.Format())
}

func TestCapture_RestoresCamera(t *testing.T) {
	e, cam := setup(t)
	before, _ := e.State(cam)
	p := New(e, e, offscreen.NewDefaultRegistry(), quiet)

	_, err := p.Capture(context.Background(), cam, 32, 32, filepath.Join(t.TempDir(), "a.png"))
	require.NoError(t, err)

	after, _ := e.State(cam)
	assert.Equal(t, before, after)
	assert.Empty(t, after.Target)

	rec, ok := e.LastRender()
	require.True(t, ok)
	assert.NotEmpty(t, rec.State.Target)
}

func TestCapture_Backdrop(t *testing.T) {
	e, cam := setup(t)
	before, _ := e.State(cam)
	p := New(e, e, offscreen.NewDefaultRegistry(), quiet)
	path := filepath.Join(t.TempDir(), "t.png")
	bg := color.RGBA{R: 0, G: 0, B: 255, A: 255}

	_, err := p.Capture(context.Background(), cam, 40, 20, path, WithBackdrop(bg))
	require.NoError(t, err)

	rec, _ := e.LastRender()
	assert.Equal(t, editor.ClearSolid, rec.State.Clear)
	assert.Equal(t, bg, rec.State.Background)
	assert.Equal(t, editor.AllLayers, rec.State.CullingMask)
	assert.Equal(t, 1, rec.Shapes, "all layers are drawn even though the camera culls everything")

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	img, err := png.Decode(fh)
	require.NoError(t, err)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0xffff}, [3]uint32{r, g, b})

	after, _ := e.State(cam)
	assert.Equal(t, before, after)
}

type brokenRenderer struct{}

func (brokenRenderer) Render(editor.NodeID, editor.RenderTarget) error {
	return errors.New("device lost")
}

func TestCapture_FailureStillReleases(t *testing.T) {
	e, cam := setup(t)
	before, _ := e.State(cam)
	reg, made := recording()
	path := filepath.Join(t.TempDir(), "never.png")

	_, err := New(e, brokenRenderer{}, reg, quiet).Capture(context.Background(), cam, 16, 16, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")

	require.Len(t, *made, 1)
	assert.True(t, (*made)[0].Closed())
	after, _ := e.State(cam)
	assert.Equal(t, before, after)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

// unreadable is a buffer whose readback always fails.
type unreadable struct{ *offscreen.ImageBuffer }

var errReadback = errors.New("readback failed")

func (unreadable) Snapshot() (*image.RGBA, error) { return nil, errReadback }

func TestCapture_ReadbackFailure(t *testing.T) {
	e, cam := setup(t)
	var made *offscreen.ImageBuffer
	reg := offscreen.NewRegistry()
	reg.Register("unreadable", 1, func(opts offscreen.Options) (offscreen.Buffer, error) {
		b, err := offscreen.NewImageBuffer(opts)
		if err != nil {
			return nil, err
		}
		made = b
		return unreadable{b}, nil
	}, nil)
	path := filepath.Join(t.TempDir(), "never.png")

	_, err := New(e, e, reg, quiet).Capture(context.Background(), cam, 8, 8, path)
	assert.ErrorIs(t, err, errReadback)
	require.NotNil(t, made)
	assert.True(t, made.Closed())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCapture_UnwritableDirectory(t *testing.T) {
	e, cam := setup(t)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	reg, made := recording()

	_, err := New(e, e, reg, quiet).Capture(context.Background(), cam, 8, 8, filepath.Join(blocker, "sub", "x.png"))
	require.Error(t, err)
	assert.True(t, (*made)[0].Closed())
}

func TestCapture_Arguments(t *testing.T) {
	e, cam := setup(t)
	p := New(e, e, offscreen.NewDefaultRegistry(), quiet)

	_, err := p.Capture(context.Background(), cam, 0, 10, "x.png")
	assert.ErrorIs(t, err, editor.ErrInvalidArgument)

	_, err = p.Capture(context.Background(), "nope", 10, 10, filepath.Join(t.TempDir(), "x.png"))
	assert.ErrorIs(t, err, editor.ErrNotFound)

	_, err = New(e, e, offscreen.NewRegistry(), quiet).Capture(context.Background(), cam, 10, 10, "x.png")
	assert.ErrorIs(t, err, editor.ErrRenderUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Capture(ctx, cam, 10, 10, "x.png")
	assert.ErrorIs(t, err, context.Canceled)
}
