package scenecap

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/scenecap/editor"
)

// action is one entry of the Execute table.
type action func(ctx context.Context, req Request) string

// registerActions fills the action table. Aliases resolve to the same entry.
func (s *Session) registerActions() {
	s.actions = make(map[string]action)
	add := func(fn action, name string, aliases ...string) {
		s.names = append(s.names, name)
		s.actions[name] = fn
		for _, a := range aliases {
			s.actions[a] = fn
		}
	}

	add(s.captureAction("Scene", s.Scene), "scene", "capture_scene")
	add(s.captureAction("Game view", s.GameView), "gameview", "capture_game_view", "game_view")
	add(s.captureAction("Template", s.Template), "template", "capture_prefab", "capture_template")
	add(func(context.Context, Request) string { return s.ListText() }, "list", "list_captures")
	sort.Strings(s.names)
}

func (s *Session) captureAction(label string, op func(context.Context, Request) (*Result, error)) action {
	return func(ctx context.Context, req Request) string {
		res, err := op(ctx, req)
		if err != nil {
			return errorText(err)
		}
		return label + " captured to: " + res.Path
	}
}

// Actions returns the primary action keywords Execute accepts.
func (s *Session) Actions() []string {
	return append([]string(nil), s.names...)
}

// Execute runs the named action and returns its text result: a success
// line with the absolute output path, a listing, or a one-line "Error: ..."
// message. Keywords are case-insensitive. Execute never panics; a panic
// inside an operation is reported as an error after the editor state has
// been restored.
func (s *Session) Execute(ctx context.Context, name string, req Request) (out string) {
	key := strings.ToLower(strings.TrimSpace(name))
	act, ok := s.actions[key]
	if !ok {
		return errorText(&editor.ArgumentError{
			Name:   "action",
			Value:  name,
			Reason: "expected one of " + strings.Join(s.names, ", "),
		})
	}

	defer func() {
		if r := recover(); r != nil {
			s.log().Error("scenecap: action panicked", "action", key, "panic", r)
			out = errorText(fmt.Errorf("%s: internal failure: %v", key, r))
		}
	}()
	return act(ctx, req)
}
