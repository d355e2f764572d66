package scenecap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gogpu/scenecap/editor"
	"github.com/gogpu/scenecap/internal/capdir"
	"github.com/gogpu/scenecap/internal/framing"
	"github.com/gogpu/scenecap/internal/guard"
	"github.com/gogpu/scenecap/internal/offscreen"
	"github.com/gogpu/scenecap/internal/overlay"
	"github.com/gogpu/scenecap/internal/pipeline"
	"github.com/gogpu/scenecap/internal/poll"
	"github.com/gogpu/scenecap/internal/rig"
)

// Names given to the temporary cameras captures create.
const (
	gameViewCameraName = "SceneCapture Camera"
	templateCameraName = "SceneCapture Template Camera"
)

// Session runs captures against one host. Operations are serialized; a
// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	host    editor.Host
	opts    options
	dir     string
	rig     *rig.Rig
	framer  *framing.Framer
	pipe    *pipeline.Pipeline
	metrics *metrics
	actions map[string]action
	names   []string
}

// New creates a Session over host. It fails if a required host service is
// missing or metrics cannot be registered.
func New(host editor.Host, opts ...Option) (*Session, error) {
	if err := host.Validate(); err != nil {
		return nil, fmt.Errorf("scenecap: %w", err)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.buffers == nil {
		o.buffers = offscreen.NewDefaultRegistry()
	}

	root, err := filepath.Abs(o.projectRoot)
	if err != nil {
		return nil, fmt.Errorf("scenecap: project root: %w", err)
	}
	m, err := newMetrics(o.registerer)
	if err != nil {
		return nil, fmt.Errorf("scenecap: metrics: %w", err)
	}

	s := &Session{
		host:    host,
		opts:    o,
		dir:     capdir.Dir(root),
		framer:  framing.New(host.Graph, host.Geometry),
		metrics: m,
	}
	s.rig = rig.New(host.Graph, host.Cameras, s.log())
	s.pipe = pipeline.New(host.Cameras, host.Renderer, o.buffers, s.log())
	s.registerActions()
	return s, nil
}

func (s *Session) log() *slog.Logger {
	if s.opts.logger != nil {
		return s.opts.logger
	}
	return Logger()
}

// Dir returns the absolute capture directory.
func (s *Session) Dir() string {
	return s.dir
}

// run serializes fn, records its metrics and restores the guard it opens
// before anything else sees the result. A panic inside fn is counted and
// re-raised after the deferred restore has run.
func (s *Session) run(name string, fn func() (*Result, error)) (res *Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	outcome := outcomePanic
	defer func() {
		s.metrics.observe(name, outcome, start)
	}()

	res, err = fn()
	outcome = outcomeOf(err)
	if err != nil {
		s.log().Debug("scenecap: capture failed", "action", name, "err", err)
		return nil, err
	}
	s.log().Info("scenecap: captured", "action", name, "path", res.Path, "width", res.Width, "height", res.Height)
	return res, nil
}

// enter opens a guarded scope. The returned func restores it and folds any
// restore failure into *errp without replacing an earlier error.
func (s *Session) enter(opts guard.Options, errp *error) (*guard.Guard, func(), error) {
	g, err := guard.Enter(s.host, s.log(), opts)
	if err != nil {
		return nil, nil, err
	}
	return g, func() {
		if rerr := g.Restore(); rerr != nil && *errp == nil {
			*errp = rerr
		}
	}, nil
}

// Scene renders a duplicate of the requested camera into a PNG. The live
// scene is captured: an open template edit context is closed for the
// capture and reopened afterwards.
func (s *Session) Scene(ctx context.Context, req Request) (*Result, error) {
	return s.run("scene", func() (res *Result, err error) {
		w, h, err := req.size(s.opts.width, s.opts.height)
		if err != nil {
			return nil, err
		}

		g, restore, err := s.enter(guard.Options{ExitTemplate: true}, &err)
		if err != nil {
			return nil, err
		}
		defer restore()

		cam, err := s.rig.Prepare(rig.Ref{Name: req.Camera}, req.overrides(), g)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(s.dir, capdir.SceneFile(s.opts.now()))
		if _, err := s.pipe.Capture(ctx, cam, w, h, path); err != nil {
			return nil, err
		}
		return &Result{Path: path, Width: w, Height: h}, nil
	})
}

// GameView asks the live game view to write its next frame, seen through a
// duplicate of the requested camera, and waits for the file. The wait is
// bounded by the session's poll settings.
func (s *Session) GameView(ctx context.Context, req Request) (*Result, error) {
	return s.run("gameview", func() (res *Result, err error) {
		gv := s.host.GameView
		if gv == nil {
			return nil, fmt.Errorf("game view: %w", ErrRenderUnavailable)
		}
		w, h, err := req.size(s.opts.width, s.opts.height)
		if err != nil {
			return nil, err
		}

		g, restore, err := s.enter(guard.Options{ExitTemplate: true}, &err)
		if err != nil {
			return nil, err
		}
		defer restore()

		cam, err := s.rig.Prepare(rig.Ref{Name: req.Camera}, req.overrides(), g)
		if errors.Is(err, ErrNotFound) && req.Camera == "" {
			s.log().Debug("scenecap: no camera in scene, synthesizing one for the game view")
			cam, err = s.rig.Synthesize(gameViewCameraName, req.overrides(), g)
		}
		if err != nil {
			return nil, err
		}
		if err := g.AssignMain(cam); err != nil {
			return nil, err
		}

		path := filepath.Join(s.dir, capdir.GameViewFile(s.opts.now()))
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return nil, err
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		if err := gv.RequestCapture(path, w, h); err != nil {
			return nil, fmt.Errorf("game view: %w", err)
		}
		gv.Redraw()
		if err := s.host.Frames.WaitFrame(ctx); err != nil {
			return nil, err
		}
		if err := poll.WaitForFile(ctx, path, s.opts.poll); err != nil {
			return nil, fmt.Errorf("game view capture: %w", err)
		}
		return &Result{Path: path, Width: w, Height: h}, nil
	})
}

// Template opens the template at req.Template in its own edit context,
// frames it and renders it over the session backdrop. Flat UI subjects face
// the camera head-on; req.UI == editor.True also draws a border.
func (s *Session) Template(ctx context.Context, req Request) (*Result, error) {
	return s.run("template", func() (res *Result, err error) {
		if err := validateTemplatePath(req.Template, s.opts.templateExt); err != nil {
			return nil, err
		}
		if !s.host.Templates.HasTemplate(req.Template) {
			return nil, &editor.NotFoundError{Kind: "template", Name: req.Template}
		}
		w, h, err := req.size(s.opts.width, s.opts.height)
		if err != nil {
			return nil, err
		}

		g, restore, err := s.enter(guard.Options{ExitTemplate: true}, &err)
		if err != nil {
			return nil, err
		}
		defer restore()

		root, err := g.OpenTemplate(req.Template)
		if err != nil {
			return nil, err
		}

		vol, pose := s.framer.Compute(root, req.UI, w, h, req.ExtraDistance)
		if pose.UI {
			g.DiscardOnClose()
		}

		cam, err := s.rig.Synthesize(templateCameraName, rig.Overrides{}, g)
		if err != nil {
			return nil, err
		}
		if err := s.poseTemplateCamera(g, cam, req, pose); err != nil {
			return nil, err
		}

		if req.UI == editor.True {
			if _, err := overlay.Build(s.host.Graph, root, w, h, g); err != nil {
				return nil, err
			}
		}

		path := filepath.Join(s.dir, capdir.TemplateFile(req.Template, s.opts.now()))
		if _, err := s.pipe.Capture(ctx, cam, w, h, path, pipeline.WithBackdrop(s.opts.backdrop)); err != nil {
			return nil, err
		}
		return &Result{Path: path, Width: w, Height: h, Volume: &vol}, nil
	})
}

// poseTemplateCamera places the capture camera: the literal request pose if
// one was given, the framed pose otherwise. The framed pose is mirrored on
// the interactive view.
func (s *Session) poseTemplateCamera(g *guard.Guard, cam editor.NodeID, req Request, pose framing.Pose) error {
	st, err := s.host.Cameras.State(cam)
	if err != nil {
		return err
	}

	if req.explicitPose() {
		req.overrides().Apply(&st)
		return s.host.Cameras.SetState(cam, st)
	}

	st.Position = pose.CameraPosition()
	st.Rotation = pose.Rotation
	st.FieldOfView = framing.FieldOfView
	st.Orthographic = pose.UI
	st.ViewSize = pose.ViewSize
	if err := s.host.Cameras.SetState(cam, st); err != nil {
		return err
	}

	if err := g.SetView(pose.View()); err != nil {
		if !errors.Is(err, ErrRenderUnavailable) {
			return err
		}
		s.log().Debug("scenecap: no interactive view to frame")
	}
	return nil
}

// List returns the captures on disk, newest first. It never creates the
// capture directory.
func (s *Session) List() ([]capdir.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return capdir.List(s.dir)
}

// ListText formats List for the text boundary.
func (s *Session) ListText() string {
	entries, err := s.List()
	if err != nil {
		return errorText(err)
	}
	return capdir.Format(s.dir, entries)
}
