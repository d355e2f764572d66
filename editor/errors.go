// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package editor

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the capture core and host implementations.
// Hosts wrap these so callers can classify failures with errors.Is.
var (
	// ErrNotFound is returned when no matching camera, node or template asset exists.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for unrecognized keywords and malformed input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTimeout is returned when an expected file does not appear in time.
	ErrTimeout = errors.New("timed out")

	// ErrRenderUnavailable is returned when a view that should expose a
	// camera or render surface does not.
	ErrRenderUnavailable = errors.New("render unavailable")
)

// ArgumentError reports a rejected input value.
type ArgumentError struct {
	Name   string
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s %q", e.Name, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Name, e.Value, e.Reason)
}

// Is makes ArgumentError match ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NotFoundError reports a missing camera, node or asset.
type NotFoundError struct {
	Kind string // "camera", "node", "template"
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return "no " + e.Kind + " found"
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Is makes NotFoundError match ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
