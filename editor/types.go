// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// NodeID identifies a node in a scene graph, a template edit context, or a
// persisted template asset. The empty NodeID never names a node.
type NodeID string

// Transform is a translate/rotate/scale triple.
type Transform struct {
	Position math32.Vector3
	Rotation math32.Quat
	Scale    math32.Vector3
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{
		Rotation: math32.NewQuat(0, 0, 0, 1),
		Scale:    math32.Vec3(1, 1, 1),
	}
}

// Apply maps p from the transform's local space into its parent space.
func (t Transform) Apply(p math32.Vector3) math32.Vector3 {
	return p.Mul(t.Scale).MulQuat(t.Rotation).Add(t.Position)
}

// Compose returns the transform equivalent to applying local first and then t.
func (t Transform) Compose(local Transform) Transform {
	rot := t.Rotation
	return Transform{
		Position: t.Apply(local.Position),
		Rotation: rot.Mul(local.Rotation),
		Scale:    t.Scale.Mul(local.Scale),
	}
}

// EulerDegrees converts Euler angles in degrees (x, y, z) to a quaternion.
func EulerDegrees(deg math32.Vector3) math32.Quat {
	return math32.NewQuatEuler(math32.Vec3(
		math32.DegToRad(deg.X),
		math32.DegToRad(deg.Y),
		math32.DegToRad(deg.Z),
	))
}

// Rect is an axis-aligned rectangle in a node's local XY plane.
type Rect struct {
	Min math32.Vector2
	Max math32.Vector2
}

// Degenerate reports whether the rectangle has no area.
func (r Rect) Degenerate() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Corners returns the four local corners at z = 0, counter-clockwise from Min.
func (r Rect) Corners() [4]math32.Vector3 {
	return [4]math32.Vector3{
		math32.Vec3(r.Min.X, r.Min.Y, 0),
		math32.Vec3(r.Max.X, r.Min.Y, 0),
		math32.Vec3(r.Max.X, r.Max.Y, 0),
		math32.Vec3(r.Min.X, r.Max.Y, 0),
	}
}

// ClearMode selects what a camera writes to its target before drawing.
type ClearMode int

const (
	// ClearSkybox fills the target with the host's sky backdrop.
	ClearSkybox ClearMode = iota
	// ClearSolid fills the target with the camera background color.
	ClearSolid
	// ClearDepthOnly leaves color untouched.
	ClearDepthOnly
	// ClearNothing leaves color and depth untouched.
	ClearNothing
)

// String returns the mode name.
func (m ClearMode) String() string {
	switch m {
	case ClearSkybox:
		return "skybox"
	case ClearSolid:
		return "solid"
	case ClearDepthOnly:
		return "depth"
	case ClearNothing:
		return "nothing"
	default:
		return "unknown"
	}
}

// AllLayers is a culling mask that renders every layer.
const AllLayers uint32 = 0xFFFFFFFF

// CameraState is the full set of camera properties a capture may touch.
// Position and Rotation are world space.
type CameraState struct {
	Position     math32.Vector3
	Rotation     math32.Quat
	FieldOfView  float32 // vertical, degrees
	Orthographic bool
	ViewSize     float32 // orthographic half-height
	Clear        ClearMode
	Background   color.RGBA
	Target       string // id of the bound render target, empty for the screen
	CullingMask  uint32
}

// ViewState is the pose of the interactive editing view.
type ViewState struct {
	Pivot    math32.Vector3
	Rotation math32.Quat
	Size     float32
}

// Tristate is an optional boolean.
type Tristate int

const (
	Unset Tristate = iota
	True
	False
)

// Set reports whether the value was given explicitly.
func (t Tristate) Set() bool { return t == True || t == False }

// String returns "auto", "true" or "false".
func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "auto"
	}
}

// ParseTristate accepts true/false/yes/no/1/0 and auto/unset/"".
func ParseTristate(s string) (Tristate, error) {
	switch s {
	case "", "auto", "unset":
		return Unset, nil
	case "true", "yes", "1":
		return True, nil
	case "false", "no", "0":
		return False, nil
	}
	return Unset, &ArgumentError{Name: "ui", Value: s}
}
