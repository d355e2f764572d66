package scenecap

import (
	"fmt"
	"path"
	"strings"

	"cogentcore.org/core/math32"

	"github.com/gogpu/scenecap/editor"
	"github.com/gogpu/scenecap/internal/framing"
	"github.com/gogpu/scenecap/internal/rig"
)

// Request describes one capture. It is consumed by a single operation and
// never modified.
type Request struct {
	// Camera names the source camera. Empty selects the main camera, then
	// the first scene camera.
	Camera string

	// Template is the asset path of the object template to capture.
	Template string

	// Position and Rotation override the capture camera's pose. Rotation is
	// Euler degrees.
	Position *math32.Vector3
	Rotation *math32.Vector3

	// Width and Height are the output size in pixels. Zero selects the
	// session default.
	Width  int
	Height int

	// ExtraDistance is added to the framed view size when positive.
	ExtraDistance float32

	// UI marks the template as flat UI content. Unset means detect it.
	// True also draws a border around the capture.
	UI editor.Tristate

	// FrontView forces automatic framing for templates, ignoring Position
	// and Rotation.
	FrontView bool
}

// Volume is a subject's bounding box.
type Volume = framing.Volume

// Result describes a written capture.
type Result struct {
	// Path is the absolute path of the PNG.
	Path   string
	Width  int
	Height int

	// Volume is the framed bounding volume of a template capture.
	Volume *Volume
}

func (r Request) overrides() rig.Overrides {
	return rig.Overrides{Position: r.Position, Rotation: r.Rotation}
}

func (r Request) explicitPose() bool {
	return !r.FrontView && (r.Position != nil || r.Rotation != nil)
}

// size resolves the output size against the session defaults.
func (r Request) size(defW, defH int) (int, int, error) {
	w, h := r.Width, r.Height
	if w < 0 || h < 0 {
		return 0, 0, &editor.ArgumentError{Name: "size", Value: fmt.Sprintf("%dx%d", w, h), Reason: "must not be negative"}
	}
	if w == 0 {
		w = defW
	}
	if h == 0 {
		h = defH
	}
	return w, h, nil
}

// validateTemplatePath accepts a relative, forward-slash asset path with the
// given extension and no parent references.
func validateTemplatePath(p, ext string) error {
	bad := func(reason string) error {
		return &editor.ArgumentError{Name: "template path", Value: p, Reason: reason}
	}
	switch {
	case strings.TrimSpace(p) == "":
		return bad("empty")
	case strings.Contains(p, `\`):
		return bad("use forward slashes")
	case strings.HasPrefix(p, "/"):
		return bad("must be relative to the project")
	}
	for _, elem := range strings.Split(p, "/") {
		if elem == ".." {
			return bad("must not leave the project")
		}
	}
	if !strings.EqualFold(path.Ext(p), ext) {
		return bad("expected a " + ext + " asset")
	}
	return nil
}
