// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"context"
	"errors"
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/gogpu/gg"
)

// SceneGraph queries and edits the active scene graph. While a template edit
// context is open, the active scene graph is that context.
type SceneGraph interface {
	// Find returns the first node with the given name in the active scene graph.
	Find(name string) (NodeID, bool)

	// Cameras lists camera nodes. The list may include cameras that belong
	// to persisted template assets; use IsTemplateAsset to filter them.
	Cameras() []NodeID

	// IsTemplateAsset reports whether id lives in a persisted template asset
	// rather than a live scene or edit context.
	IsTemplateAsset(id NodeID) bool

	// Subtree returns root and all its descendants in pre-order.
	Subtree(root NodeID) []NodeID

	Parent(id NodeID) (NodeID, bool)
	Name(id NodeID) string
	Exists(id NodeID) bool

	// WorldTransform returns the local-to-world transform of id.
	WorldTransform(id NodeID) Transform

	// CreateRect adds an opaque rectangular layout node under parent.
	// The rectangle is in parent-local coordinates.
	CreateRect(parent NodeID, name string, r Rect, c color.RGBA) (NodeID, error)

	// Destroy removes id and its descendants.
	Destroy(id NodeID) error
}

// Geometry exposes the renderable shape of nodes.
type Geometry interface {
	// MeshBounds returns the world-space bounds of the node's renderable
	// mesh, if it has one.
	MeshBounds(id NodeID) (math32.Box3, bool)

	// RectOf returns the local rectangle of a rectangular layout node.
	RectOf(id NodeID) (Rect, bool)

	// IsUIContainer reports whether id is a layout root for flat UI content.
	IsUIContainer(id NodeID) bool
}

// CameraService owns camera components and the single "main" designation.
type CameraService interface {
	IsCamera(id NodeID) bool

	// Main returns the camera currently holding the main designation.
	Main() (NodeID, bool)

	// SetMain moves the main designation to id. An empty id clears it.
	SetMain(id NodeID) error

	State(id NodeID) (CameraState, error)
	SetState(id NodeID, s CameraState) error

	// Duplicate clones a camera node, transform and settings included,
	// as a sibling in the active scene graph.
	Duplicate(id NodeID) (NodeID, error)

	// Create adds a new camera node with default settings at the root of
	// the active scene graph.
	Create(name string) (NodeID, error)
}

// TemplateService manages the isolated template edit context.
type TemplateService interface {
	HasTemplate(path string) bool

	// Open enters the edit context for path and returns its root node.
	Open(path string) (NodeID, error)

	// Current returns the open context, if any.
	Current() (path string, root NodeID, ok bool)

	// Close exits the current edit context without saving.
	Close() error

	// DiscardChanges clears pending edit-dirtiness in the open context.
	DiscardChanges() error
}

// InteractiveView is the host's interactive editing viewport.
type InteractiveView interface {
	// Pose returns the view pose; ok is false if no view is open.
	Pose() (ViewState, bool)
	SetPose(ViewState) error
	Repaint()
}

// GameView is the live play view. Captures are honored on its next redraw.
type GameView interface {
	// RequestCapture asks the view to write a width x height PNG to path
	// the next time it redraws.
	RequestCapture(path string, width, height int) error
	// Redraw schedules a redraw of the game view.
	Redraw()
}

// UndoService is the host's undo history.
type UndoService interface {
	// Mark returns a position in the history.
	Mark() int
	// Discard drops every entry recorded after mark without applying it.
	Discard(mark int)
}

// RenderTarget is an offscreen buffer a camera can be bound to.
type RenderTarget interface {
	ID() string
	Width() int
	Height() int
	Canvas() *gg.Context
}

// Renderer draws what a camera sees into the target it is bound to.
type Renderer interface {
	Render(camera NodeID, target RenderTarget) error
}

// FrameTicker suspends until the host has completed one frame.
type FrameTicker interface {
	WaitFrame(ctx context.Context) error
}

// Host bundles the services the capture core consumes.
// GameView may be nil; every other field is required.
type Host struct {
	Graph     SceneGraph
	Geometry  Geometry
	Cameras   CameraService
	Templates TemplateService
	View      InteractiveView
	GameView  GameView
	Undo      UndoService
	Renderer  Renderer
	Frames    FrameTicker
}

// Validate reports missing required services.
func (h Host) Validate() error {
	var errs []error
	check := func(ok bool, name string) {
		if !ok {
			errs = append(errs, &ArgumentError{Name: "host", Value: name, Reason: "service missing"})
		}
	}
	check(h.Graph != nil, "Graph")
	check(h.Geometry != nil, "Geometry")
	check(h.Cameras != nil, "Cameras")
	check(h.Templates != nil, "Templates")
	check(h.View != nil, "View")
	check(h.Undo != nil, "Undo")
	check(h.Renderer != nil, "Renderer")
	check(h.Frames != nil, "Frames")
	return errors.Join(errs...)
}
