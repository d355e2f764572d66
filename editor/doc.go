// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package editor defines the host services the capture core consumes and the
// value types that cross that boundary.
//
// A host is anything that owns a scene graph, cameras, a template edit
// context and an interactive view: a real editor bridge, or the in-memory
// implementation in editor/memedit. The capture core never reaches host state
// except through these interfaces.
package editor
