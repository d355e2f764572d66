// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package guard snapshots the shared editor state a capture touches and puts
// it back exactly once when the capture ends.
//
// A Guard is the only thing a capture mutates editor state through: the
// interactive view pose, the main camera designation, the template edit
// context and the temporary nodes the capture creates. Typical use:
//
//	g, err := guard.Enter(host, log, guard.Options{ExitTemplate: true})
//	if err != nil {
//		return err
//	}
//	defer func() { _ = g.Restore() }()
package guard

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/scenecap/editor"
)

// ErrReassigned is returned by AssignMain when the main designation has
// already been reassigned inside the same scope.
var ErrReassigned = errors.New("guard: main camera already reassigned")

// Options controls what Enter does to the environment.
type Options struct {
	// ExitTemplate leaves an open template edit context without saving so
	// the capture starts from the live scene. The context is reopened on
	// restore.
	ExitTemplate bool
}

// Guard is the saved editor context of one capture. It is not safe for
// concurrent use.
type Guard struct {
	host editor.Host
	log  *slog.Logger

	mark int

	view    editor.ViewState
	hasView bool

	prevTemplate string
	leftPrev     bool
	opened       bool
	discard      bool

	mainSaved bool
	prevMain  editor.NodeID

	temps    []editor.NodeID
	restored bool
}

// Enter opens a scope. The view is snapshotted before anything else, so
// leaving an open template cannot disturb the saved pose. If Enter fails the
// scope has already been restored.
func Enter(host editor.Host, log *slog.Logger, opts Options) (*Guard, error) {
	g := &Guard{host: host, log: log}
	g.mark = host.Undo.Mark()
	g.view, g.hasView = host.View.Pose()

	if opts.ExitTemplate {
		if err := g.leaveTemplate(); err != nil {
			return nil, errors.Join(err, g.Restore())
		}
	}
	return g, nil
}

// leaveTemplate records and exits the open edit context, if any.
func (g *Guard) leaveTemplate() error {
	path, _, ok := g.host.Templates.Current()
	if !ok || g.leftPrev {
		return nil
	}
	if err := g.host.Templates.Close(); err != nil {
		return fmt.Errorf("guard: leave template %s: %w", path, err)
	}
	g.prevTemplate, g.leftPrev = path, true
	g.log.Debug("guard: left template", "path", path)
	return nil
}

// Track hands a temporary node to the scope. Tracked nodes are destroyed on
// restore in reverse order of tracking.
func (g *Guard) Track(id editor.NodeID) {
	g.temps = append(g.temps, id)
}

// Tracked returns the nodes the scope will destroy.
func (g *Guard) Tracked() []editor.NodeID {
	return append([]editor.NodeID(nil), g.temps...)
}

// OpenTemplate enters the edit context for path. Any context open at that
// point is recorded and reopened on restore.
func (g *Guard) OpenTemplate(path string) (editor.NodeID, error) {
	if err := g.leaveTemplate(); err != nil {
		return "", err
	}
	root, err := g.host.Templates.Open(path)
	if err != nil {
		return "", err
	}
	g.opened = true
	return root, nil
}

// DiscardOnClose makes restore drop pending edits in the template the scope
// opened before closing it.
func (g *Guard) DiscardOnClose() {
	g.discard = true
}

// SetView repositions the interactive view. The original pose is restored
// regardless of what is set here.
func (g *Guard) SetView(v editor.ViewState) error {
	if !g.hasView {
		return fmt.Errorf("guard: set view: %w", editor.ErrRenderUnavailable)
	}
	if err := g.host.View.SetPose(v); err != nil {
		return err
	}
	g.host.View.Repaint()
	return nil
}

// AssignMain gives id the main designation. It may be called once per
// scope; the previous holder gets it back on restore.
func (g *Guard) AssignMain(id editor.NodeID) error {
	if g.mainSaved {
		return ErrReassigned
	}
	prev, _ := g.host.Cameras.Main()
	if err := g.host.Cameras.SetMain(id); err != nil {
		return err
	}
	g.prevMain, g.mainSaved = prev, true
	return nil
}

// Restored reports whether Restore has run.
func (g *Guard) Restored() bool {
	return g.restored
}

// Restore puts the editor back the way Enter found it. Every step runs even
// if an earlier one fails; the failures are joined and logged. Calls after
// the first do nothing.
func (g *Guard) Restore() error {
	if g.restored {
		return nil
	}
	g.restored = true

	var errs []error
	step := func(name string, err error) {
		if err == nil {
			return
		}
		g.log.Warn("guard: restore step failed", "step", name, "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}

	if g.hasView {
		step("view", g.host.View.SetPose(g.view))
		g.host.View.Repaint()
	}

	if g.mainSaved {
		step("main camera", g.host.Cameras.SetMain(g.prevMain))
	}

	for i := len(g.temps) - 1; i >= 0; i-- {
		id := g.temps[i]
		if !g.host.Graph.Exists(id) {
			continue
		}
		step("destroy "+string(id), g.host.Graph.Destroy(id))
	}
	g.temps = nil

	if g.opened {
		if g.discard {
			step("discard changes", g.host.Templates.DiscardChanges())
		}
		step("close template", g.host.Templates.Close())
	}

	if g.leftPrev {
		_, err := g.host.Templates.Open(g.prevTemplate)
		step("reopen "+g.prevTemplate, err)
	}

	g.host.Undo.Discard(g.mark)

	if len(errs) > 0 {
		return fmt.Errorf("guard: restore: %w", errors.Join(errs...))
	}
	return nil
}
