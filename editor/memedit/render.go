// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package memedit

import (
	"fmt"
	"image/color"
	"sort"

	"cogentcore.org/core/math32"
	"github.com/gogpu/gg"

	"github.com/gogpu/scenecap/editor"
)

// SkyColor fills targets of cameras that clear to the skybox.
var SkyColor = color.RGBA{R: 135, G: 169, B: 214, A: 255}

const nearPlane float32 = 0.01

// RenderRecord describes the most recent Render call.
type RenderRecord struct {
	Camera editor.NodeID
	State  editor.CameraState
	Width  int
	Height int
	Shapes int
}

// LastRender returns the most recent Render call, if any.
func (e *Editor) LastRender() (RenderRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return RenderRecord{}, false
	}
	return *e.last, true
}

// Render implements editor.Renderer. The camera must be bound to target.
func (e *Editor) Render(camera editor.NodeID, target editor.RenderTarget) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.camera(camera)
	if err != nil {
		return err
	}
	if n.Camera.Target != target.ID() {
		return fmt.Errorf("memedit: camera %q is bound to %q, not %q", n.Name, n.Camera.Target, target.ID())
	}
	shapes, err := e.draw(target.Canvas(), n.Scene, *n.Camera)
	if err != nil {
		return fmt.Errorf("memedit: render %q: %w", n.Name, err)
	}
	e.last = &RenderRecord{
		Camera: camera,
		State:  *n.Camera,
		Width:  target.Width(),
		Height: target.Height(),
		Shapes: shapes,
	}
	return nil
}

type shape struct {
	pts   []math32.Vector2
	depth float32
	color color.RGBA
}

// draw paints the scene as flat polygons, far to near. Meshes become the
// screen rectangle spanning their projected box; rectangles keep their
// projected corners. Shapes reaching behind the camera are skipped.
func (e *Editor) draw(dc *gg.Context, scene sceneKey, cam editor.CameraState) (int, error) {
	switch cam.Clear {
	case editor.ClearSkybox:
		dc.ClearWithColor(gg.FromColor(SkyColor))
	case editor.ClearSolid:
		dc.ClearWithColor(gg.FromColor(cam.Background))
	}

	p := newProjector(cam, float32(dc.Width()), float32(dc.Height()))
	var shapes []shape
	for _, r := range e.roots[scene] {
		e.walk(r, func(n *node) bool {
			if cam.CullingMask&(1<<uint(n.Layer&31)) == 0 {
				return true
			}
			switch {
			case n.Mesh != nil:
				if s, ok := p.mesh(e.world(n.ID), n.Mesh); ok {
					shapes = append(shapes, s)
				}
			case n.Rect != nil && !n.Rect.Rect.Degenerate():
				if s, ok := p.rect(e.world(n.ID), n.Rect); ok {
					shapes = append(shapes, s)
				}
			}
			return true
		})
	}

	sort.SliceStable(shapes, func(i, j int) bool { return shapes[i].depth > shapes[j].depth })
	for _, s := range shapes {
		dc.SetColor(s.color)
		dc.MoveTo(float64(s.pts[0].X), float64(s.pts[0].Y))
		for _, pt := range s.pts[1:] {
			dc.LineTo(float64(pt.X), float64(pt.Y))
		}
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return 0, err
		}
	}
	return len(shapes), nil
}

type projector struct {
	pos    math32.Vector3
	inv    math32.Quat
	ortho  bool
	scale  float32
	cx, cy float32
}

func newProjector(cam editor.CameraState, w, h float32) projector {
	rot := cam.Rotation
	p := projector{
		pos:   cam.Position,
		inv:   rot.Conjugate(),
		ortho: cam.Orthographic,
		cx:    w / 2,
		cy:    h / 2,
	}
	if p.ortho {
		p.scale = (h / 2) / math32.Max(cam.ViewSize, nearPlane)
	} else {
		fov := cam.FieldOfView
		if fov <= 0 {
			fov = 60
		}
		p.scale = (h / 2) / math32.Tan(math32.DegToRad(fov)/2)
	}
	return p
}

// project maps a world point to pixel coordinates and view depth.
func (p projector) project(v math32.Vector3) (math32.Vector2, float32, bool) {
	c := v.Sub(p.pos).MulQuat(p.inv)
	if p.ortho {
		return math32.Vec2(p.cx+c.X*p.scale, p.cy-c.Y*p.scale), c.Z, true
	}
	if c.Z <= nearPlane {
		return math32.Vector2{}, 0, false
	}
	return math32.Vec2(p.cx+c.X/c.Z*p.scale, p.cy-c.Y/c.Z*p.scale), c.Z, true
}

func (p projector) mesh(world editor.Transform, m *Mesh) (shape, bool) {
	minX, minY := math32.Inf(1), math32.Inf(1)
	maxX, maxY := math32.Inf(-1), math32.Inf(-1)
	var depth float32
	for _, c := range boxCorners(m.Size) {
		pt, z, ok := p.project(world.Apply(c))
		if !ok {
			return shape{}, false
		}
		minX, minY = math32.Min(minX, pt.X), math32.Min(minY, pt.Y)
		maxX, maxY = math32.Max(maxX, pt.X), math32.Max(maxY, pt.Y)
		depth += z / 8
	}
	return shape{
		pts: []math32.Vector2{
			math32.Vec2(minX, minY), math32.Vec2(maxX, minY),
			math32.Vec2(maxX, maxY), math32.Vec2(minX, maxY),
		},
		depth: depth,
		color: m.Color,
	}, true
}

func (p projector) rect(world editor.Transform, r *RectShape) (shape, bool) {
	s := shape{color: r.Color}
	for _, c := range r.Rect.Corners() {
		pt, z, ok := p.project(world.Apply(c))
		if !ok {
			return shape{}, false
		}
		s.pts = append(s.pts, pt)
		s.depth += z / 4
	}
	return s, true
}
