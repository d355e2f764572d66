// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package memedit is an in-memory editor host. It keeps a live scene, a set of
// template assets with an optional open edit context, cameras with a main
// designation, an interactive view, a game view and an undo log, and renders
// with gg's software rasterizer.
//
// It backs the capture tests and the scenecap command. All methods are safe
// for concurrent use; the game view redraws on its own goroutine.
package memedit

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"
	"time"

	"cogentcore.org/core/math32"
	"github.com/google/uuid"

	"github.com/gogpu/scenecap/editor"
)

type sceneKey string

const liveScene sceneKey = "scene"

func stageKey(path string) sceneKey { return sceneKey("stage:" + path) }
func assetKey(path string) sceneKey { return sceneKey("asset:" + path) }

func (k sceneKey) isAsset() bool { return strings.HasPrefix(string(k), "asset:") }

// Mesh is a box of the given size centered on its node.
type Mesh struct {
	Size  math32.Vector3
	Color color.RGBA
}

// RectShape is a flat rectangle in its node's local XY plane.
type RectShape struct {
	Rect  editor.Rect
	Color color.RGBA
}

type node struct {
	ID          editor.NodeID
	Name        string
	Scene       sceneKey
	Parent      editor.NodeID
	Children    []editor.NodeID
	Local       editor.Transform
	Layer       int
	Camera      *editor.CameraState
	Mesh        *Mesh
	Rect        *RectShape
	UIContainer bool
}

type stage struct {
	path  string
	root  editor.NodeID
	dirty bool
}

// Editor is the in-memory host.
type Editor struct {
	mu sync.Mutex

	nodes     map[editor.NodeID]*node
	roots     map[sceneKey][]editor.NodeID
	templates map[string]NodeSpec
	stage     *stage

	main     editor.NodeID
	view     *editor.ViewState
	repaints int
	game     *gameView

	undo     []string
	frames   int
	discards int
	last     *RenderRecord
}

// Option configures a new Editor.
type Option func(*Editor)

// WithoutView starts the editor with no interactive view open.
func WithoutView() Option {
	return func(e *Editor) { e.view = nil }
}

// WithoutGameView starts the editor with no game view.
func WithoutGameView() Option {
	return func(e *Editor) { e.game = nil }
}

// WithGameViewDelay delays game view redraws, imitating a view that lags.
func WithGameViewDelay(d time.Duration) Option {
	return func(e *Editor) {
		if e.game != nil {
			e.game.delay = d
		}
	}
}

// WithView sets the initial interactive view pose.
func WithView(v editor.ViewState) Option {
	return func(e *Editor) { e.view = &v }
}

// New creates an empty editor with an interactive view and a focused game view.
func New(opts ...Option) *Editor {
	e := &Editor{
		nodes:     make(map[editor.NodeID]*node),
		roots:     make(map[sceneKey][]editor.NodeID),
		templates: make(map[string]NodeSpec),
		view: &editor.ViewState{
			Pivot:    math32.Vec3(0, 0, 0),
			Rotation: math32.NewQuat(0, 0, 0, 1),
			Size:     10,
		},
		game: &gameView{focused: true},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Host exposes the editor as capture services.
func (e *Editor) Host() editor.Host {
	h := editor.Host{
		Graph:     e,
		Geometry:  e,
		Cameras:   e,
		Templates: e,
		View:      e,
		Undo:      e,
		Renderer:  e,
		Frames:    e,
	}
	if e.game != nil {
		h.GameView = e
	}
	return h
}

// Observation is the externally visible editor state that captures must
// leave untouched.
type Observation struct {
	View     editor.ViewState
	HasView  bool
	Main     editor.NodeID
	Template string
	Dirty    bool
	Nodes    int
	Undo     int
}

// Observe returns the current Observation.
func (e *Editor) Observe() Observation {
	e.mu.Lock()
	defer e.mu.Unlock()

	o := Observation{Main: e.main, Nodes: len(e.nodes), Undo: len(e.undo)}
	if e.view != nil {
		o.View, o.HasView = *e.view, true
	}
	if e.stage != nil {
		o.Template, o.Dirty = e.stage.path, e.stage.dirty
	}
	return o
}

// NodeNames lists the names of every node in the active scene, pre-order.
func (e *Editor) NodeNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var names []string
	for _, r := range e.roots[e.active()] {
		e.walk(r, func(n *node) bool {
			names = append(names, n.Name)
			return true
		})
	}
	return names
}

// AddNode builds spec under parent. An empty parent adds a root to the
// active scene.
func (e *Editor) AddNode(parent editor.NodeID, spec NodeSpec) (editor.NodeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	scene := e.active()
	if parent != "" {
		p, ok := e.nodes[parent]
		if !ok {
			return "", &editor.NotFoundError{Kind: "node", Name: string(parent)}
		}
		scene = p.Scene
	}
	return e.build(scene, parent, spec)
}

func (e *Editor) active() sceneKey {
	if e.stage != nil {
		return stageKey(e.stage.path)
	}
	return liveScene
}

func (e *Editor) newID() editor.NodeID {
	return editor.NodeID(uuid.NewString())
}

func (e *Editor) attach(n *node) {
	e.nodes[n.ID] = n
	if n.Parent == "" {
		e.roots[n.Scene] = append(e.roots[n.Scene], n.ID)
		return
	}
	p := e.nodes[n.Parent]
	p.Children = append(p.Children, n.ID)
}

func (e *Editor) detach(n *node) {
	if n.Parent == "" {
		e.roots[n.Scene] = removeID(e.roots[n.Scene], n.ID)
		return
	}
	if p, ok := e.nodes[n.Parent]; ok {
		p.Children = removeID(p.Children, n.ID)
	}
}

func removeID(ids []editor.NodeID, id editor.NodeID) []editor.NodeID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// walk visits id and its descendants in pre-order until fn returns false.
func (e *Editor) walk(id editor.NodeID, fn func(*node) bool) bool {
	n, ok := e.nodes[id]
	if !ok {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !e.walk(c, fn) {
			return false
		}
	}
	return true
}

func (e *Editor) world(id editor.NodeID) editor.Transform {
	n, ok := e.nodes[id]
	if !ok {
		return editor.IdentityTransform()
	}
	if n.Camera != nil {
		t := editor.IdentityTransform()
		t.Position, t.Rotation = n.Camera.Position, n.Camera.Rotation
		return t
	}
	if n.Parent == "" {
		return n.Local
	}
	return e.world(n.Parent).Compose(n.Local)
}

// touch records an edit: it goes on the undo log and dirties the open
// template if the node lives there.
func (e *Editor) touch(scene sceneKey, what string) {
	e.undo = append(e.undo, what)
	if e.stage != nil && scene == stageKey(e.stage.path) {
		e.stage.dirty = true
	}
}

func (e *Editor) destroy(id editor.NodeID) {
	n, ok := e.nodes[id]
	if !ok {
		return
	}
	for _, c := range append([]editor.NodeID(nil), n.Children...) {
		e.destroy(c)
	}
	e.detach(n)
	delete(e.nodes, id)
	if e.main == id {
		e.main = ""
	}
}

// Find implements editor.SceneGraph.
func (e *Editor) Find(name string) (editor.NodeID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var found editor.NodeID
	for _, r := range e.roots[e.active()] {
		if !e.walk(r, func(n *node) bool {
			if n.Name == name {
				found = n.ID
				return false
			}
			return true
		}) {
			return found, true
		}
	}
	return "", false
}

// Cameras implements editor.SceneGraph. Cameras inside template assets come
// first, ordered by asset path, followed by the active scene in pre-order.
func (e *Editor) Cameras() []editor.NodeID {
	e.mu.Lock()
	defer e.mu.Unlock()

	var assets []string
	for p := range e.templates {
		assets = append(assets, p)
	}
	sort.Strings(assets)

	var out []editor.NodeID
	collect := func(scene sceneKey) {
		for _, r := range e.roots[scene] {
			e.walk(r, func(n *node) bool {
				if n.Camera != nil {
					out = append(out, n.ID)
				}
				return true
			})
		}
	}
	for _, p := range assets {
		collect(assetKey(p))
	}
	collect(e.active())
	return out
}

// IsTemplateAsset implements editor.SceneGraph.
func (e *Editor) IsTemplateAsset(id editor.NodeID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.nodes[id]
	return ok && n.Scene.isAsset()
}

// Subtree implements editor.SceneGraph.
func (e *Editor) Subtree(root editor.NodeID) []editor.NodeID {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []editor.NodeID
	e.walk(root, func(n *node) bool {
		out = append(out, n.ID)
		return true
	})
	return out
}

// Parent implements editor.SceneGraph.
func (e *Editor) Parent(id editor.NodeID) (editor.NodeID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.nodes[id]
	if !ok || n.Parent == "" {
		return "", false
	}
	return n.Parent, true
}

// Name implements editor.SceneGraph.
func (e *Editor) Name(id editor.NodeID) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n, ok := e.nodes[id]; ok {
		return n.Name
	}
	return ""
}

// Exists implements editor.SceneGraph.
func (e *Editor) Exists(id editor.NodeID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.nodes[id]
	return ok
}

// WorldTransform implements editor.SceneGraph.
func (e *Editor) WorldTransform(id editor.NodeID) editor.Transform {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world(id)
}

// CreateRect implements editor.SceneGraph.
func (e *Editor) CreateRect(parent editor.NodeID, name string, r editor.Rect, c color.RGBA) (editor.NodeID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.nodes[parent]
	if !ok {
		return "", &editor.NotFoundError{Kind: "node", Name: string(parent)}
	}
	n := &node{
		ID:     e.newID(),
		Name:   name,
		Scene:  p.Scene,
		Parent: parent,
		Local:  editor.IdentityTransform(),
		Layer:  p.Layer,
		Rect:   &RectShape{Rect: r, Color: c},
	}
	e.attach(n)
	e.touch(n.Scene, "create "+name)
	return n.ID, nil
}

// Destroy implements editor.SceneGraph.
func (e *Editor) Destroy(id editor.NodeID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.nodes[id]
	if !ok {
		return &editor.NotFoundError{Kind: "node", Name: string(id)}
	}
	e.touch(n.Scene, "destroy "+n.Name)
	e.destroy(id)
	return nil
}

// MeshBounds implements editor.Geometry.
func (e *Editor) MeshBounds(id editor.NodeID) (math32.Box3, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n, ok := e.nodes[id]
	if !ok || n.Mesh == nil {
		return math32.Box3{}, false
	}
	return e.meshBox(n), true
}

func (e *Editor) meshBox(n *node) math32.Box3 {
	world := e.world(n.ID)
	box := math32.B3Empty()
	for _, c := range boxCorners(n.Mesh.Size) {
		box.ExpandByPoint(world.Apply(c))
	}
	return box
}

func boxCorners(size math32.Vector3) [8]math32.Vector3 {
	h := size.MulScalar(0.5)
	return [8]math32.Vector3{
		math32.Vec3(-h.X, -h.Y, -h.Z),
		math32.Vec3(h.X, -h.Y, -h.Z),
		math32.Vec3(h.X, h.Y, -h.Z),
		math32.Vec3(-h.X, h.Y, -h.Z),
		math32.Vec3(-h.X, -h.Y, h.Z),
		math32.Vec3(h.X, -h.Y, h.Z),
		math32.Vec3(h.X, h.Y, h.Z),
		math32.Vec3(-h.X, h.Y, h.Z),
	}
}

// RectOf implements editor.Geometry.
func (e *Editor) RectOf(id editor.NodeID) (editor.Rect, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.nodes[id]
	if !ok || n.Rect == nil {
		return editor.Rect{}, false
	}
	return n.Rect.Rect, true
}

// IsUIContainer implements editor.Geometry.
func (e *Editor) IsUIContainer(id editor.NodeID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.nodes[id]
	return ok && n.UIContainer
}

// Mark implements editor.UndoService.
func (e *Editor) Mark() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.undo)
}

// Discard implements editor.UndoService.
func (e *Editor) Discard(mark int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if mark >= 0 && mark < len(e.undo) {
		e.undo = e.undo[:mark]
	}
}

// UndoHistory returns a copy of the undo log.
func (e *Editor) UndoHistory() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.undo...)
}

func (e *Editor) String() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fmt.Sprintf("memedit(%d nodes, %d templates)", len(e.nodes), len(e.templates))
}
