// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"errors"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_Apply(t *testing.T) {
	tr := Transform{
		Position: math32.Vec3(1, 2, 3),
		Rotation: math32.NewQuat(0, 0, 0, 1),
		Scale:    math32.Vec3(2, 2, 2),
	}
	got := tr.Apply(math32.Vec3(1, 1, 1))
	assert.InDelta(t, 3, got.X, 1e-5)
	assert.InDelta(t, 4, got.Y, 1e-5)
	assert.InDelta(t, 5, got.Z, 1e-5)
}

func TestTransform_ComposeYaw(t *testing.T) {
	parent := IdentityTransform()
	parent.Position = math32.Vec3(10, 0, 0)
	parent.Rotation = EulerDegrees(math32.Vec3(0, 90, 0))

	child := IdentityTransform()
	child.Position = math32.Vec3(0, 0, 1)

	world := parent.Compose(child)
	// +Z rotated 90 degrees about Y lands on +X.
	assert.InDelta(t, 11, world.Position.X, 1e-4)
	assert.InDelta(t, 0, world.Position.Z, 1e-4)
}

func TestRect_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"unit", Rect{Max: math32.Vec2(1, 1)}, false},
		{"zero width", Rect{Max: math32.Vec2(0, 1)}, true},
		{"inverted", Rect{Min: math32.Vec2(2, 0), Max: math32.Vec2(1, 1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Degenerate())
		})
	}
}

func TestParseTristate(t *testing.T) {
	for in, want := range map[string]Tristate{"": Unset, "auto": Unset, "true": True, "no": False} {
		got, err := ParseTristate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseTristate("maybe")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestHost_Validate(t *testing.T) {
	err := Host{}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Contains(t, err.Error(), "Renderer")
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Kind: "camera", Name: "Top"}
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, `camera "Top" not found`, err.Error())
	assert.Equal(t, "no camera found", (&NotFoundError{Kind: "camera"}).Error())
}
