// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package offscreen

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory allocates a Buffer with the given options.
type Factory func(opts Options) (Buffer, error)

// Entry is a registered buffer backend.
type Entry struct {
	Name string

	// Priority determines selection order (higher = preferred).
	// The software backend registers at 10.
	Priority int

	Factory Factory

	// Available reports if the backend can allocate on this system.
	Available func() bool
}

// Registry maps backend names to buffer factories.
//
// Hosts with a GPU path register their own factory at a higher priority;
// the pipeline then allocates through New without knowing which one it got.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// NewDefaultRegistry creates a registry holding the software backend.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("software", 10, func(opts Options) (Buffer, error) {
		return NewImageBuffer(opts)
	}, nil)
	return r
}

// Register adds or replaces a backend. A nil available means always available.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*Entry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &Entry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Available returns the names of available backends, highest priority first.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type entry struct {
		name     string
		priority int
	}
	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if e.Available() {
			entries = append(entries, entry{name, e.Priority})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// New allocates from the best available backend, falling through to the
// next one on failure.
func (r *Registry) New(opts Options) (Buffer, error) {
	names := r.Available()
	if len(names) == 0 {
		return nil, ErrNoBackend
	}

	var errs []error
	for _, name := range names {
		b, err := r.NewByName(name, opts)
		if err == nil {
			return b, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return nil, errors.Join(errs...)
}

// NewByName allocates from a specific backend.
func (r *Registry) NewByName(name string, opts Options) (Buffer, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !e.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return e.Factory(opts)
}

// ErrNoBackend is returned when no backend is registered or available.
var ErrNoBackend = errors.New("offscreen: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "offscreen: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "offscreen: backend unavailable: " + e.Name
}

// SizeError is returned for non-positive buffer dimensions.
type SizeError struct {
	Width, Height int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("offscreen: invalid size %dx%d", e.Width, e.Height)
}
