// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package overlay draws a temporary frame around a UI capture.
package overlay

import (
	"fmt"
	"image/color"

	"cogentcore.org/core/math32"

	"github.com/gogpu/scenecap/editor"
)

// Thickness is the border width in container units.
const Thickness float32 = 10

// Color is the border fill.
var Color = color.RGBA{R: 255, G: 0, B: 0, A: 255}

// Owner takes ownership of the created border nodes.
type Owner interface {
	Track(id editor.NodeID)
}

// Edges returns the top, bottom, left and right border rectangles of a
// width x height frame centered on the container origin, in the container's
// local space.
func Edges(width, height int) [4]editor.Rect {
	w, h, t := float32(width)/2, float32(height)/2, Thickness
	return [4]editor.Rect{
		{Min: math32.Vec2(-w, h-t), Max: math32.Vec2(w, h)},
		{Min: math32.Vec2(-w, -h), Max: math32.Vec2(w, -h+t)},
		{Min: math32.Vec2(-w, -h), Max: math32.Vec2(-w+t, h)},
		{Min: math32.Vec2(w-t, -h), Max: math32.Vec2(w, h)},
	}
}

var edgeNames = [4]string{"CaptureBorderTop", "CaptureBorderBottom", "CaptureBorderLeft", "CaptureBorderRight"}

// Build adds the four border nodes under container. Each node is handed to
// owner as soon as it exists, so a failure part way leaves nothing untracked.
func Build(graph editor.SceneGraph, container editor.NodeID, width, height int, owner Owner) ([]editor.NodeID, error) {
	if width <= 0 || height <= 0 {
		return nil, &editor.ArgumentError{Name: "size", Value: fmt.Sprintf("%dx%d", width, height)}
	}

	ids := make([]editor.NodeID, 0, 4)
	for i, r := range Edges(width, height) {
		id, err := graph.CreateRect(container, edgeNames[i], r, Color)
		if err != nil {
			return ids, fmt.Errorf("border %s: %w", edgeNames[i], err)
		}
		owner.Track(id)
		ids = append(ids, id)
	}
	return ids, nil
}
