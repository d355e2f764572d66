// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rig

import (
	"io"
	"log/slog"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/scenecap/editor"
	"github.com/gogpu/scenecap/editor/memedit"
)

type tracker []editor.NodeID

func (t *tracker) Track(id editor.NodeID) { *t = append(*t, id) }

func newRig(e *memedit.Editor) *Rig {
	return New(e, e, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func camSpec(name string, pos ...float32) memedit.NodeSpec {
	return memedit.NodeSpec{Name: name, Position: pos, Camera: &memedit.CameraSpec{}}
}

func TestResolve_Order(t *testing.T) {
	e := memedit.New()
	require.NoError(t, e.AddTemplate("Assets/Rig.prefab", camSpec("Asset Cam")))
	first, err := e.AddNode("", camSpec("First", 0, 0, 0))
	require.NoError(t, err)
	main, err := e.AddNode("", camSpec("Main", 0, 1, 0))
	require.NoError(t, err)
	named, err := e.AddNode("", camSpec("Top", 0, 10, 0))
	require.NoError(t, err)
	r := newRig(e)

	got, err := r.Resolve(Ref{Name: "Top"})
	require.NoError(t, err)
	assert.Equal(t, named, got)

	// No main yet: the first non-asset camera.
	got, err = r.Resolve(Ref{Name: "Nope"})
	require.NoError(t, err)
	assert.Equal(t, first, got)

	require.NoError(t, e.SetMain(main))
	got, err = r.Resolve(Ref{Name: "Nope"})
	require.NoError(t, err)
	assert.Equal(t, main, got)

	got, err = r.Resolve(Ref{ID: first})
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestResolve_NamedNodeMustBeCamera(t *testing.T) {
	e := memedit.New()
	_, err := e.AddNode("", memedit.NodeSpec{Name: "Top"})
	require.NoError(t, err)
	cam, err := e.AddNode("", camSpec("Cam"))
	require.NoError(t, err)

	got, err := newRig(e).Resolve(Ref{Name: "Top"})
	require.NoError(t, err)
	assert.Equal(t, cam, got)
}

func TestResolve_NotFound(t *testing.T) {
	e := memedit.New()
	require.NoError(t, e.AddTemplate("Assets/Only.prefab", camSpec("Asset Cam")))
	_, err := newRig(e).Resolve(Ref{})
	assert.ErrorIs(t, err, editor.ErrNotFound)

	_, err = newRig(e).Resolve(Ref{ID: "missing"})
	assert.ErrorIs(t, err, editor.ErrNotFound)
}

func TestPrepare_DuplicatesWithoutMutatingSource(t *testing.T) {
	e := memedit.New()
	src, err := e.AddNode("", camSpec("Main", 1, 2, 3))
	require.NoError(t, err)
	before, _ := e.State(src)

	pos := math32.Vec3(5, 5, 5)
	rot := math32.Vec3(0, 90, 0)
	var owned tracker
	dup, err := newRig(e).Prepare(Ref{Name: "Main"}, Overrides{Position: &pos, Rotation: &rot}, &owned)
	require.NoError(t, err)

	assert.NotEqual(t, src, dup)
	assert.Equal(t, tracker{dup}, owned)

	after, _ := e.State(src)
	assert.Equal(t, before, after)

	ds, _ := e.State(dup)
	assert.Equal(t, pos, ds.Position)
	assert.InDelta(t, 0.7071, ds.Rotation.Y, 1e-3)
}

func TestPrepare_InheritsTransformVerbatim(t *testing.T) {
	e := memedit.New()
	src, err := e.AddNode("", memedit.NodeSpec{
		Name:     "Main",
		Position: []float32{1, 2, 3},
		Rotation: []float32{10, 20, 30},
		Camera:   &memedit.CameraSpec{FieldOfView: 45},
	})
	require.NoError(t, err)

	var owned tracker
	dup, err := newRig(e).Prepare(Ref{}, Overrides{}, &owned)
	require.NoError(t, err)

	s1, _ := e.State(src)
	s2, _ := e.State(dup)
	assert.Equal(t, s1, s2)
}

func TestSynthesize(t *testing.T) {
	e := memedit.New()
	pos := math32.Vec3(0, 0, -3)
	var owned tracker
	id, err := newRig(e).Synthesize("Ephemeral", Overrides{Position: &pos}, &owned)
	require.NoError(t, err)
	assert.Equal(t, tracker{id}, owned)
	s, _ := e.State(id)
	assert.Equal(t, pos, s.Position)
}
