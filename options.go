package scenecap

import (
	"image/color"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/scenecap/internal/offscreen"
	"github.com/gogpu/scenecap/internal/pipeline"
	"github.com/gogpu/scenecap/internal/poll"
)

// Default output size used when a request leaves width or height at zero.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// DefaultTemplateExt is the file extension template asset paths must carry.
const DefaultTemplateExt = ".prefab"

// Option configures a Session during creation.
//
// Example:
//
//	s, err := scenecap.New(host,
//	    scenecap.WithProjectRoot("/work/game"),
//	    scenecap.WithPoll(200*time.Millisecond, 25),
//	)
type Option func(*options)

type options struct {
	projectRoot   string
	poll          poll.Config
	backdrop      color.RGBA
	logger        *slog.Logger
	registerer    prometheus.Registerer
	buffers       *offscreen.Registry
	now           func() time.Time
	templateExt   string
	width, height int
}

func defaultOptions() options {
	return options{
		projectRoot: ".",
		poll:        poll.DefaultConfig(),
		backdrop:    pipeline.DefaultBackdrop,
		now:         time.Now,
		templateExt: DefaultTemplateExt,
		width:       DefaultWidth,
		height:      DefaultHeight,
	}
}

// WithProjectRoot sets the directory the SceneCapture folder is created in.
// Relative paths are resolved once, when the session is created.
func WithProjectRoot(dir string) Option {
	return func(o *options) {
		o.projectRoot = dir
	}
}

// WithPoll bounds the game-view file wait: at most attempts checks spaced
// by interval. The default is 50 x 100ms.
func WithPoll(interval time.Duration, attempts int) Option {
	return func(o *options) {
		o.poll = poll.Config{Interval: interval, MaxAttempts: attempts}
	}
}

// WithBackdrop sets the solid background template captures render over.
func WithBackdrop(c color.RGBA) Option {
	return func(o *options) {
		o.backdrop = c
	}
}

// WithLogger gives the session its own logger instead of the package one.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRegisterer registers the session's metrics on r. Without it metrics
// are collected but not exported.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}

// WithBufferRegistry replaces the offscreen buffer backends. Hosts with a GPU
// can register a faster backend next to the software one.
func WithBufferRegistry(r *offscreen.Registry) Option {
	return func(o *options) {
		o.buffers = r
	}
}

// WithClock sets the time source used for capture filenames.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithTemplateExt sets the required template asset extension, dot included.
func WithTemplateExt(ext string) Option {
	return func(o *options) {
		o.templateExt = ext
	}
}

// WithDefaultSize sets the output size used when a request gives zero.
func WithDefaultSize(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}
