package scenecap

import (
	"strings"

	"github.com/gogpu/scenecap/editor"
)

// Error taxonomy. Every error a Session returns matches one of these with
// errors.Is, or a context error.
var (
	// ErrNotFound: no matching camera, node or template asset.
	ErrNotFound = editor.ErrNotFound

	// ErrInvalidArgument: unrecognized action keyword, malformed path or size.
	ErrInvalidArgument = editor.ErrInvalidArgument

	// ErrTimeout: an expected output file did not appear within the bounded wait.
	ErrTimeout = editor.ErrTimeout

	// ErrRenderUnavailable: a view that should expose a camera or render
	// surface does not.
	ErrRenderUnavailable = editor.ErrRenderUnavailable
)

// errorText renders err as the single line returned at the text boundary.
func errorText(err error) string {
	msg := strings.Join(strings.Fields(strings.ReplaceAll(err.Error(), "\n", "; ")), " ")
	return "Error: " + msg
}
