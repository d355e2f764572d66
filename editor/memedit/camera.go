// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package memedit

import (
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/jinzhu/copier"

	"github.com/gogpu/scenecap/editor"
)

// DefaultBackground is the background of newly created cameras.
var DefaultBackground = color.RGBA{R: 49, G: 77, B: 121, A: 255}

// DefaultCamera returns the settings of a newly created camera.
func DefaultCamera() editor.CameraState {
	return editor.CameraState{
		Rotation:    math32.NewQuat(0, 0, 0, 1),
		FieldOfView: 60,
		ViewSize:    5,
		Clear:       editor.ClearSkybox,
		Background:  DefaultBackground,
		CullingMask: editor.AllLayers,
	}
}

func (e *Editor) camera(id editor.NodeID) (*node, error) {
	n, ok := e.nodes[id]
	if !ok || n.Camera == nil {
		return nil, &editor.NotFoundError{Kind: "camera", Name: string(id)}
	}
	return n, nil
}

// IsCamera implements editor.CameraService.
func (e *Editor) IsCamera(id editor.NodeID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.camera(id)
	return err == nil
}

// Main implements editor.CameraService.
func (e *Editor) Main() (editor.NodeID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.camera(e.main); err != nil {
		return "", false
	}
	return e.main, true
}

// SetMain implements editor.CameraService.
func (e *Editor) SetMain(id editor.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id != "" {
		if _, err := e.camera(id); err != nil {
			return err
		}
	}
	e.main = id
	return nil
}

// State implements editor.CameraService.
func (e *Editor) State(id editor.NodeID) (editor.CameraState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, err := e.camera(id)
	if err != nil {
		return editor.CameraState{}, err
	}
	return *n.Camera, nil
}

// SetState implements editor.CameraService.
func (e *Editor) SetState(id editor.NodeID, s editor.CameraState) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, err := e.camera(id)
	if err != nil {
		return err
	}
	*n.Camera = s
	return nil
}

// Duplicate implements editor.CameraService. The copy is a sibling of the
// source without its children.
func (e *Editor) Duplicate(id editor.NodeID) (editor.NodeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	src, err := e.camera(id)
	if err != nil {
		return "", err
	}
	dup := &node{}
	if err := copier.CopyWithOption(dup, src, copier.Option{DeepCopy: true}); err != nil {
		return "", err
	}
	dup.ID = e.newID()
	dup.Name = src.Name + " (Clone)"
	dup.Children = nil
	if src.Scene.isAsset() {
		// Instantiating from an asset lands in the active scene.
		dup.Scene, dup.Parent = e.active(), ""
	}
	e.attach(dup)
	e.touch(dup.Scene, "duplicate "+src.Name)
	return dup.ID, nil
}

// Create implements editor.CameraService.
func (e *Editor) Create(name string) (editor.NodeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cam := DefaultCamera()
	n := &node{
		ID:     e.newID(),
		Name:   name,
		Scene:  e.active(),
		Local:  editor.IdentityTransform(),
		Camera: &cam,
	}
	e.attach(n)
	e.touch(n.Scene, "create "+name)
	return n.ID, nil
}
