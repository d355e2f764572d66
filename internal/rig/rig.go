// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package rig resolves the camera a capture renders through and hands out a
// duplicate of it, so the source camera is never touched.
package rig

import (
	"log/slog"

	"cogentcore.org/core/math32"

	"github.com/gogpu/scenecap/editor"
)

// Owner takes ownership of temporary entities and destroys them when the
// capture ends.
type Owner interface {
	Track(id editor.NodeID)
}

// Ref selects the source camera. ID wins over Name; both empty means
// "whatever the host would use".
type Ref struct {
	ID   editor.NodeID
	Name string
}

// Overrides are explicit pose values applied to the duplicate only.
// Rotation is Euler degrees.
type Overrides struct {
	Position *math32.Vector3
	Rotation *math32.Vector3
}

// Apply writes the overrides into s.
func (o Overrides) Apply(s *editor.CameraState) {
	if o.Position != nil {
		s.Position = *o.Position
	}
	if o.Rotation != nil {
		s.Rotation = editor.EulerDegrees(*o.Rotation)
	}
}

// Rig resolves and duplicates cameras.
type Rig struct {
	graph editor.SceneGraph
	cams  editor.CameraService
	log   *slog.Logger
}

// New returns a Rig over the host's graph and camera services.
func New(graph editor.SceneGraph, cams editor.CameraService, log *slog.Logger) *Rig {
	return &Rig{graph: graph, cams: cams, log: log}
}

// Resolve finds the source camera: the explicit ID, then a camera named
// ref.Name in the active scene graph, then the main camera, then the first
// camera that is not part of a persisted template asset.
func (r *Rig) Resolve(ref Ref) (editor.NodeID, error) {
	if ref.ID != "" {
		if r.cams.IsCamera(ref.ID) {
			return ref.ID, nil
		}
		return "", &editor.NotFoundError{Kind: "camera", Name: string(ref.ID)}
	}

	if ref.Name != "" {
		if id, ok := r.graph.Find(ref.Name); ok && r.cams.IsCamera(id) {
			return id, nil
		}
		r.log.Warn("rig: named camera not found, falling back", "name", ref.Name)
	}

	if id, ok := r.cams.Main(); ok {
		return id, nil
	}

	for _, id := range r.graph.Cameras() {
		if !r.graph.IsTemplateAsset(id) {
			return id, nil
		}
	}

	return "", &editor.NotFoundError{Kind: "camera", Name: ref.Name}
}

// Prepare resolves the source camera, duplicates it and applies the
// overrides to the duplicate. The duplicate is handed to owner before any
// further step can fail.
func (r *Rig) Prepare(ref Ref, ov Overrides, owner Owner) (editor.NodeID, error) {
	src, err := r.Resolve(ref)
	if err != nil {
		return "", err
	}

	dup, err := r.cams.Duplicate(src)
	if err != nil {
		return "", err
	}
	owner.Track(dup)

	if ov.Position == nil && ov.Rotation == nil {
		r.log.Debug("rig: duplicated camera", "source", r.graph.Name(src), "dup", dup)
		return dup, nil
	}

	s, err := r.cams.State(dup)
	if err != nil {
		return "", err
	}
	ov.Apply(&s)
	if err := r.cams.SetState(dup, s); err != nil {
		return "", err
	}
	r.log.Debug("rig: duplicated camera with overrides", "source", r.graph.Name(src), "dup", dup)
	return dup, nil
}

// Synthesize creates an ephemeral camera with the overrides applied, for
// callers that render even when the scene has no camera.
func (r *Rig) Synthesize(name string, ov Overrides, owner Owner) (editor.NodeID, error) {
	id, err := r.cams.Create(name)
	if err != nil {
		return "", err
	}
	owner.Track(id)

	s, err := r.cams.State(id)
	if err != nil {
		return "", err
	}
	ov.Apply(&s)
	if err := r.cams.SetState(id, s); err != nil {
		return "", err
	}
	return id, nil
}
