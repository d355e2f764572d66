// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package memedit

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"sort"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/gogpu/gg"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/scenecap/editor"
)

// NodeSpec describes a node subtree. Vectors are [x, y, z]; rotations are
// Euler degrees; colors are hex strings.
type NodeSpec struct {
	Name        string      `yaml:"name"`
	Position    []float32   `yaml:"position,omitempty"`
	Rotation    []float32   `yaml:"rotation,omitempty"`
	Scale       []float32   `yaml:"scale,omitempty"`
	Layer       int         `yaml:"layer,omitempty"`
	Camera      *CameraSpec `yaml:"camera,omitempty"`
	Mesh        *MeshSpec   `yaml:"mesh,omitempty"`
	Rect        *RectSpec   `yaml:"rect,omitempty"`
	UIContainer bool        `yaml:"ui_container,omitempty"`
	Children    []NodeSpec  `yaml:"children,omitempty"`
}

// CameraSpec describes camera settings.
type CameraSpec struct {
	FieldOfView  float32 `yaml:"fov,omitempty"`
	Orthographic bool    `yaml:"orthographic,omitempty"`
	Size         float32 `yaml:"size,omitempty"`
	Clear        string  `yaml:"clear,omitempty"`
	Background   string  `yaml:"background,omitempty"`
	CullingMask  *uint32 `yaml:"culling_mask,omitempty"`
}

// MeshSpec is a box mesh.
type MeshSpec struct {
	Size  []float32 `yaml:"size,omitempty"`
	Color string    `yaml:"color,omitempty"`
}

// RectSpec is a flat rectangle, [x, y] corners.
type RectSpec struct {
	Min   []float32 `yaml:"min"`
	Max   []float32 `yaml:"max"`
	Color string    `yaml:"color,omitempty"`
}

// ViewSpec is the interactive view pose.
type ViewSpec struct {
	Pivot    []float32 `yaml:"pivot,omitempty"`
	Rotation []float32 `yaml:"rotation,omitempty"`
	Size     float32   `yaml:"size,omitempty"`
}

// Fixture is a whole editor session.
type Fixture struct {
	MainCamera   string              `yaml:"main_camera,omitempty"`
	View         *ViewSpec           `yaml:"view,omitempty"`
	NoGameView   bool                `yaml:"no_game_view,omitempty"`
	OpenTemplate string              `yaml:"open_template,omitempty"`
	Scene        []NodeSpec          `yaml:"scene"`
	Templates    map[string]NodeSpec `yaml:"templates,omitempty"`
}

// Load decodes a YAML fixture and builds an editor from it.
func Load(r io.Reader, opts ...Option) (*Editor, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("memedit: decode fixture: %w", err)
	}
	return FromFixture(f, opts...)
}

// LoadFile loads a YAML fixture from disk.
func LoadFile(path string, opts ...Option) (*Editor, error) {
	fh, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Load(fh, opts...)
}

// FromFixture builds an editor from a decoded fixture.
func FromFixture(f Fixture, opts ...Option) (*Editor, error) {
	if f.NoGameView {
		opts = append([]Option{WithoutGameView()}, opts...)
	}
	if f.View != nil {
		v := editor.ViewState{
			Pivot:    vec3(f.View.Pivot, math32.Vec3(0, 0, 0)),
			Rotation: editor.EulerDegrees(vec3(f.View.Rotation, math32.Vec3(0, 0, 0))),
			Size:     f.View.Size,
		}
		opts = append([]Option{WithView(v)}, opts...)
	}
	e := New(opts...)

	paths := make([]string, 0, len(f.Templates))
	for p := range f.Templates {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := e.AddTemplate(p, f.Templates[p]); err != nil {
			return nil, err
		}
	}
	for _, spec := range f.Scene {
		if _, err := e.AddNode("", spec); err != nil {
			return nil, err
		}
	}
	if f.MainCamera != "" {
		id, ok := e.Find(f.MainCamera)
		if !ok {
			return nil, &editor.NotFoundError{Kind: "camera", Name: f.MainCamera}
		}
		if err := e.SetMain(id); err != nil {
			return nil, err
		}
	}
	if f.OpenTemplate != "" {
		if _, err := e.Open(f.OpenTemplate); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// build instantiates spec in scene under parent. Callers hold e.mu.
func (e *Editor) build(scene sceneKey, parent editor.NodeID, spec NodeSpec) (editor.NodeID, error) {
	n := &node{
		ID:          e.newID(),
		Name:        spec.Name,
		Scene:       scene,
		Parent:      parent,
		Layer:       spec.Layer,
		UIContainer: spec.UIContainer,
		Local: editor.Transform{
			Position: vec3(spec.Position, math32.Vec3(0, 0, 0)),
			Rotation: editor.EulerDegrees(vec3(spec.Rotation, math32.Vec3(0, 0, 0))),
			Scale:    vec3(spec.Scale, math32.Vec3(1, 1, 1)),
		},
	}
	if spec.Mesh != nil {
		c, err := parseColor(spec.Mesh.Color, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		if err != nil {
			return "", err
		}
		n.Mesh = &Mesh{Size: vec3(spec.Mesh.Size, math32.Vec3(1, 1, 1)), Color: c}
	}
	if spec.Rect != nil {
		c, err := parseColor(spec.Rect.Color, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		if err != nil {
			return "", err
		}
		n.Rect = &RectShape{
			Rect:  editor.Rect{Min: vec2(spec.Rect.Min), Max: vec2(spec.Rect.Max)},
			Color: c,
		}
	}
	if spec.Camera != nil {
		cam, err := cameraFromSpec(*spec.Camera)
		if err != nil {
			return "", err
		}
		world := n.Local
		if parent != "" {
			world = e.world(parent).Compose(n.Local)
		}
		cam.Position, cam.Rotation = world.Position, world.Rotation
		n.Camera = &cam
	}

	e.attach(n)
	for _, child := range spec.Children {
		if _, err := e.build(scene, n.ID, child); err != nil {
			return "", err
		}
	}
	return n.ID, nil
}

func cameraFromSpec(s CameraSpec) (editor.CameraState, error) {
	cam := DefaultCamera()
	if s.FieldOfView > 0 {
		cam.FieldOfView = s.FieldOfView
	}
	if s.Size > 0 {
		cam.ViewSize = s.Size
	}
	cam.Orthographic = s.Orthographic
	if s.CullingMask != nil {
		cam.CullingMask = *s.CullingMask
	}
	switch strings.ToLower(s.Clear) {
	case "", "skybox":
		cam.Clear = editor.ClearSkybox
	case "solid", "color":
		cam.Clear = editor.ClearSolid
	case "depth":
		cam.Clear = editor.ClearDepthOnly
	case "nothing", "none":
		cam.Clear = editor.ClearNothing
	default:
		return cam, &editor.ArgumentError{Name: "clear", Value: s.Clear}
	}
	bg, err := parseColor(s.Background, DefaultBackground)
	if err != nil {
		return cam, err
	}
	cam.Background = bg
	return cam, nil
}

func vec3(v []float32, def math32.Vector3) math32.Vector3 {
	if len(v) < 3 {
		return def
	}
	return math32.Vec3(v[0], v[1], v[2])
}

func vec2(v []float32) math32.Vector2 {
	if len(v) < 2 {
		return math32.Vector2{}
	}
	return math32.Vec2(v[0], v[1])
}

// parseColor accepts #RGB, #RRGGBB and #RRGGBBAA.
func parseColor(s string, def color.RGBA) (color.RGBA, error) {
	if s == "" {
		return def, nil
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 6, 8:
	default:
		return def, &editor.ArgumentError{Name: "color", Value: s}
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return def, &editor.ArgumentError{Name: "color", Value: s}
		}
	}
	return color.RGBAModel.Convert(gg.Hex(s).Color()).(color.RGBA), nil
}
