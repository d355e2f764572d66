// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package memedit

import (
	"context"

	"github.com/gogpu/scenecap/editor"
)

// AddTemplate registers a template asset at path with the given root. The
// asset's nodes exist in the graph as persisted-asset nodes; opening the
// template builds a separate editable copy.
func (e *Editor) AddTemplate(path string, root NodeSpec) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.templates[path]; ok {
		for _, r := range append([]editor.NodeID(nil), e.roots[assetKey(path)]...) {
			e.destroy(r)
		}
	}
	e.templates[path] = root
	_, err := e.build(assetKey(path), "", root)
	return err
}

// HasTemplate implements editor.TemplateService.
func (e *Editor) HasTemplate(path string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.templates[path]
	return ok
}

// Open implements editor.TemplateService. Opening while another template is
// open switches contexts without saving.
func (e *Editor) Open(path string) (editor.NodeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	spec, ok := e.templates[path]
	if !ok {
		return "", &editor.NotFoundError{Kind: "template", Name: path}
	}
	e.closeStage()

	root, err := e.build(stageKey(path), "", spec)
	if err != nil {
		e.dropScene(stageKey(path))
		return "", err
	}
	e.stage = &stage{path: path, root: root}
	return root, nil
}

// Current implements editor.TemplateService.
func (e *Editor) Current() (string, editor.NodeID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stage == nil {
		return "", "", false
	}
	return e.stage.path, e.stage.root, true
}

// Close implements editor.TemplateService.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeStage()
	return nil
}

func (e *Editor) closeStage() {
	if e.stage == nil {
		return
	}
	e.dropScene(stageKey(e.stage.path))
	e.stage = nil
}

func (e *Editor) dropScene(k sceneKey) {
	for _, r := range append([]editor.NodeID(nil), e.roots[k]...) {
		e.destroy(r)
	}
	delete(e.roots, k)
}

// DiscardChanges implements editor.TemplateService.
func (e *Editor) DiscardChanges() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stage != nil {
		e.stage.dirty = false
	}
	e.discards++
	return nil
}

// Dirty reports whether the open template has unsaved edits.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage != nil && e.stage.dirty
}

// Discards counts DiscardChanges calls.
func (e *Editor) Discards() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.discards
}

// Pose implements editor.InteractiveView.
func (e *Editor) Pose() (editor.ViewState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view == nil {
		return editor.ViewState{}, false
	}
	return *e.view, true
}

// SetPose implements editor.InteractiveView.
func (e *Editor) SetPose(v editor.ViewState) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.view == nil {
		return editor.ErrRenderUnavailable
	}
	*e.view = v
	return nil
}

// Repaint implements editor.InteractiveView.
func (e *Editor) Repaint() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repaints++
}

// Repaints counts interactive view repaints.
func (e *Editor) Repaints() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repaints
}

// WaitFrame implements editor.FrameTicker.
func (e *Editor) WaitFrame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames++
	return nil
}

// Frames counts completed WaitFrame calls.
func (e *Editor) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}
