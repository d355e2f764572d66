// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package memedit

import (
	"os"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/scenecap/editor"
)

type captureRequest struct {
	path          string
	width, height int
}

// gameView honors capture requests only when it redraws, and it only
// redraws while focused.
type gameView struct {
	focused bool
	delay   time.Duration
	pending *captureRequest
	written []string
	err     error
	wg      sync.WaitGroup
}

// RequestCapture implements editor.GameView.
func (e *Editor) RequestCapture(path string, width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.game == nil {
		return editor.ErrRenderUnavailable
	}
	if width <= 0 || height <= 0 {
		return &editor.ArgumentError{Name: "size", Value: "non-positive"}
	}
	e.game.pending = &captureRequest{path: path, width: width, height: height}
	return nil
}

// Redraw implements editor.GameView.
func (e *Editor) Redraw() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.redrawGameView()
}

// SetGameViewFocused changes game view focus. Regaining focus honors a
// pending capture.
func (e *Editor) SetGameViewFocused(focused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.game == nil {
		return
	}
	e.game.focused = focused
	e.redrawGameView()
}

// WaitGameView blocks until in-flight game view writes finish and returns
// the paths written so far and the last write error.
func (e *Editor) WaitGameView() ([]string, error) {
	e.mu.Lock()
	g := e.game
	e.mu.Unlock()
	if g == nil {
		return nil, nil
	}
	g.wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), g.written...), g.err
}

func (e *Editor) redrawGameView() {
	g := e.game
	if g == nil || !g.focused || g.pending == nil {
		return
	}
	req := *g.pending
	g.pending = nil
	delay := g.delay

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if delay > 0 {
			time.Sleep(delay)
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		if err := e.writeGameView(req); err != nil {
			g.err = err
			return
		}
		g.written = append(g.written, req.path)
	}()
}

// writeGameView renders the main camera and writes the PNG through a
// temporary file so the final path never holds a partial image.
func (e *Editor) writeGameView(req captureRequest) error {
	dc := gg.NewContext(req.width, req.height)
	defer dc.Close()

	if cam, err := e.camera(e.main); err == nil {
		state := *cam.Camera
		state.Target = ""
		if _, err := e.draw(dc, cam.Scene, state); err != nil {
			return err
		}
	} else {
		dc.ClearWithColor(gg.RGB(0, 0, 0))
	}

	tmp := req.path + ".tmp"
	if err := dc.SavePNG(tmp); err != nil {
		return err
	}
	return os.Rename(tmp, req.path)
}
