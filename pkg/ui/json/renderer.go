// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/types"
	"github.com/arthur-debert/webup/pkg/ui/display"
)

// Renderer provides JSON output for machine consumption. Stage events are
// written as JSON lines, everything else as indented documents.
type Renderer struct {
	output io.Writer
	lines  *json.Encoder
	docs   *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) *Renderer {
	docs := json.NewEncoder(output)
	docs.SetIndent("", "  ")
	return &Renderer{
		output: output,
		lines:  json.NewEncoder(output),
		docs:   docs,
	}
}

// Notify writes the event as one JSON line
func (r *Renderer) Notify(ev types.StageEvent) {
	if err := r.lines.Encode(display.NewEvent(ev)); err != nil {
		logger := logging.GetLogger("ui")
		logger.Debug().Err(err).Msg("Failed to encode stage event")
	}
}

// RenderStatus renders the status as one JSON document
func (r *Renderer) RenderStatus(s *display.Status) error {
	return r.docs.Encode(s)
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.lines.Encode(map[string]string{
		"error": err.Error(),
	})
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.lines.Encode(map[string]string{
		"message": msg,
	})
}
