// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package framing computes bounding volumes and front-on camera poses for
// capture subjects, both 3D meshes and flat UI layouts.
package framing

import (
	"cogentcore.org/core/math32"

	"github.com/gogpu/scenecap/editor"
)

const (
	// FieldOfView is the vertical field of view, in degrees, framing assumes.
	FieldOfView float32 = 60

	// Padding scales the fitted distance so the subject does not touch the edges.
	Padding float32 = 1.2

	// UIViewScale is the view size per output pixel for UI subjects.
	UIViewScale float32 = 0.2
)

// Kind says where a Volume came from.
type Kind int

const (
	// KindMesh is the union of renderable mesh bounds.
	KindMesh Kind = iota
	// KindUIRect is the union of rectangles under a UI container.
	KindUIRect
	// KindFallback is the unit box used when a subtree has no geometry.
	KindFallback
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindUIRect:
		return "ui-rect"
	default:
		return "fallback"
	}
}

// Volume is an axis-aligned bounding box. It is never empty: subjects with
// no geometry get a unit box at their root position.
type Volume struct {
	Center math32.Vector3
	Size   math32.Vector3
	Kind   Kind
}

// Box returns the volume as min/max corners.
func (v Volume) Box() math32.Box3 {
	half := v.Size.MulScalar(0.5)
	return math32.Box3{Min: v.Center.Sub(half), Max: v.Center.Add(half)}
}

func volumeOf(b math32.Box3, k Kind) Volume {
	return Volume{Center: b.Center(), Size: b.Size(), Kind: k}
}

// Pose is where the interactive view and capture camera look from.
type Pose struct {
	Pivot    math32.Vector3
	Rotation math32.Quat
	ViewSize float32
	UI       bool
}

// Forward returns the direction the pose looks along.
func (p Pose) Forward() math32.Vector3 {
	return math32.Vec3(0, 0, 1).MulQuat(p.Rotation)
}

// CameraPosition places a camera ViewSize units back from the pivot along
// the view direction.
func (p Pose) CameraPosition() math32.Vector3 {
	return p.Pivot.Sub(p.Forward().MulScalar(p.ViewSize))
}

// View converts the pose to an interactive view state.
func (p Pose) View() editor.ViewState {
	return editor.ViewState{Pivot: p.Pivot, Rotation: p.Rotation, Size: p.ViewSize}
}

// Framer reads subject geometry through the host's graph services.
type Framer struct {
	graph editor.SceneGraph
	geom  editor.Geometry
}

// New returns a Framer over the given graph services.
func New(graph editor.SceneGraph, geom editor.Geometry) *Framer {
	return &Framer{graph: graph, geom: geom}
}

// Bounds computes the volume of the subtree at root. Mesh bounds win over
// UI rectangles; with neither the result is a unit box at root.
func (f *Framer) Bounds(root editor.NodeID) Volume {
	nodes := f.graph.Subtree(root)

	box := math32.B3Empty()
	for _, id := range nodes {
		if b, ok := f.geom.MeshBounds(id); ok {
			box.ExpandByBox(b)
		}
	}
	if !box.IsEmpty() {
		return volumeOf(box, KindMesh)
	}

	for _, id := range nodes {
		r, ok := f.geom.RectOf(id)
		if !ok || r.Degenerate() {
			continue
		}
		world := f.graph.WorldTransform(id)
		for _, c := range r.Corners() {
			box.ExpandByPoint(world.Apply(c))
		}
	}
	if !box.IsEmpty() {
		return volumeOf(box, KindUIRect)
	}

	return Volume{
		Center: f.graph.WorldTransform(root).Position,
		Size:   math32.Vec3(1, 1, 1),
		Kind:   KindFallback,
	}
}

// IsUI decides whether root is flat UI content. An explicit flag wins.
// Otherwise a UI container at root or above it, or a rectangular layout
// node at root, marks it as UI.
func (f *Framer) IsUI(root editor.NodeID, flag editor.Tristate) bool {
	if flag.Set() {
		return flag == editor.True
	}
	for id, ok := root, true; ok; id, ok = f.graph.Parent(id) {
		if f.geom.IsUIContainer(id) {
			return true
		}
	}
	_, isRect := f.geom.RectOf(root)
	return isRect
}

// Compute returns the subject's volume and the pose that frames it from the
// front. A positive extra distance is added to the view size.
func (f *Framer) Compute(root editor.NodeID, flag editor.Tristate, width, height int, extra float32) (Volume, Pose) {
	vol := f.Bounds(root)
	var pose Pose
	if f.IsUI(root, flag) {
		pose = UIPose(width, height)
	} else {
		pose = MeshPose(vol)
	}
	if extra > 0 {
		pose.ViewSize += extra
	}
	return vol, pose
}

// MeshPose looks back at the subject's front with a 180 degree yaw, far
// enough for the bounding diagonal to fit the field of view.
func MeshPose(vol Volume) Pose {
	halfDiag := vol.Size.Length() / 2
	dist := halfDiag / math32.Tan(math32.DegToRad(FieldOfView)/2) * Padding
	return Pose{
		Pivot:    vol.Center,
		Rotation: math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.Pi),
		ViewSize: dist,
	}
}

// UIPose faces flat content head-on. The pivot is the center of a
// width x height pixel canvas with its origin at the bottom-left, an
// approximation that ignores where the container actually sits.
func UIPose(width, height int) Pose {
	w, h := float32(width), float32(height)
	return Pose{
		Pivot:    math32.Vec3(w/2, h/2, 0),
		Rotation: math32.NewQuat(0, 0, 0, 1),
		ViewSize: UIViewScale * math32.Max(w, h),
		UI:       true,
	}
}
