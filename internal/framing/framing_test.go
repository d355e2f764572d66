// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framing

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/scenecap/editor"
	"github.com/gogpu/scenecap/editor/memedit"
)

func assertVec(t *testing.T, want, got math32.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-4, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-4, "z")
}

func TestBounds_MeshUnion(t *testing.T) {
	e := memedit.New()
	root, err := e.AddNode("", memedit.NodeSpec{
		Name: "Pair",
		Children: []memedit.NodeSpec{
			{Name: "A", Mesh: &memedit.MeshSpec{Size: []float32{2, 2, 2}}},
			{Name: "B", Position: []float32{4, 0, 0}, Mesh: &memedit.MeshSpec{Size: []float32{2, 2, 2}}},
			{Name: "Label", Rect: &memedit.RectSpec{Min: []float32{0, 0}, Max: []float32{100, 100}}},
		},
	})
	require.NoError(t, err)

	vol := New(e, e).Bounds(root)
	assert.Equal(t, KindMesh, vol.Kind)
	assertVec(t, math32.Vec3(2, 0, 0), vol.Center)
	assertVec(t, math32.Vec3(6, 2, 2), vol.Size)

	box := vol.Box()
	assertVec(t, math32.Vec3(-1, -1, -1), box.Min)
	assertVec(t, math32.Vec3(5, 1, 1), box.Max)
}

func TestBounds_UIRects(t *testing.T) {
	e := memedit.New()
	root, err := e.AddNode("", memedit.NodeSpec{
		Name:        "Canvas",
		Position:    []float32{10, 0, 0},
		UIContainer: true,
		Children: []memedit.NodeSpec{
			{Name: "Panel", Rect: &memedit.RectSpec{Min: []float32{0, 0}, Max: []float32{100, 50}}},
			{Name: "Empty", Rect: &memedit.RectSpec{Min: []float32{5, 5}, Max: []float32{5, 9}}},
		},
	})
	require.NoError(t, err)

	vol := New(e, e).Bounds(root)
	assert.Equal(t, KindUIRect, vol.Kind)
	assertVec(t, math32.Vec3(60, 25, 0), vol.Center)
	assertVec(t, math32.Vec3(100, 50, 0), vol.Size)
}

func TestBounds_FallbackUnitBox(t *testing.T) {
	e := memedit.New()
	root, err := e.AddNode("", memedit.NodeSpec{Name: "Empty", Position: []float32{3, 4, 5}})
	require.NoError(t, err)

	vol := New(e, e).Bounds(root)
	assert.Equal(t, KindFallback, vol.Kind)
	assert.Equal(t, "fallback", vol.Kind.String())
	assertVec(t, math32.Vec3(3, 4, 5), vol.Center)
	assertVec(t, math32.Vec3(1, 1, 1), vol.Size)
}

func TestIsUI(t *testing.T) {
	e := memedit.New()
	canvas, err := e.AddNode("", memedit.NodeSpec{
		Name:        "Canvas",
		UIContainer: true,
		Children:    []memedit.NodeSpec{{Name: "Button"}},
	})
	require.NoError(t, err)
	button, _ := e.Find("Button")
	crate, err := e.AddNode("", memedit.NodeSpec{Name: "Crate", Mesh: &memedit.MeshSpec{}})
	require.NoError(t, err)
	label, err := e.AddNode("", memedit.NodeSpec{Name: "Label", Rect: &memedit.RectSpec{Min: []float32{0, 0}, Max: []float32{1, 1}}})
	require.NoError(t, err)

	f := New(e, e)
	tests := []struct {
		name string
		root editor.NodeID
		flag editor.Tristate
		want bool
	}{
		{"container", canvas, editor.Unset, true},
		{"inside container", button, editor.Unset, true},
		{"rect layout", label, editor.Unset, true},
		{"mesh", crate, editor.Unset, false},
		{"forced on", crate, editor.True, true},
		{"forced off", canvas, editor.False, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsUI(tt.root, tt.flag))
		})
	}
}

func TestMeshPose(t *testing.T) {
	vol := Volume{Center: math32.Vec3(1, 2, 3), Size: math32.Vec3(2, 2, 2)}
	p := MeshPose(vol)

	// half diagonal sqrt(3), over tan(30deg), padded by 1.2
	assert.InDelta(t, 3.6, p.ViewSize, 1e-3)
	assert.False(t, p.UI)
	assertVec(t, vol.Center, p.Pivot)
	assertVec(t, math32.Vec3(0, 0, -1), p.Forward())
	assertVec(t, math32.Vec3(1, 2, 6.6), p.CameraPosition())
}

func TestUIPose(t *testing.T) {
	p := UIPose(800, 600)
	assert.True(t, p.UI)
	assertVec(t, math32.Vec3(400, 300, 0), p.Pivot)
	assert.Equal(t, math32.NewQuat(0, 0, 0, 1), p.Rotation)
	assert.InDelta(t, 160, p.ViewSize, 1e-4)

	v := p.View()
	assert.Equal(t, p.Pivot, v.Pivot)
	assert.Equal(t, p.ViewSize, v.Size)
}

func TestCompute_ExtraDistance(t *testing.T) {
	e := memedit.New()
	root, err := e.AddNode("", memedit.NodeSpec{Name: "Crate", Mesh: &memedit.MeshSpec{Size: []float32{2, 2, 2}}})
	require.NoError(t, err)
	f := New(e, e)

	_, base := f.Compute(root, editor.Unset, 800, 600, 0)
	_, far := f.Compute(root, editor.Unset, 800, 600, 5)
	_, neg := f.Compute(root, editor.Unset, 800, 600, -5)
	assert.InDelta(t, base.ViewSize+5, far.ViewSize, 1e-4)
	assert.Equal(t, base.ViewSize, neg.ViewSize)

	vol, ui := f.Compute(root, editor.True, 1000, 500, 2)
	assert.Equal(t, KindMesh, vol.Kind)
	assert.True(t, ui.UI)
	assert.InDelta(t, 202, ui.ViewSize, 1e-4)
}
