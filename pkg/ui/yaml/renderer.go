// Package yaml renders YAML documents, one per call.
package yaml

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/types"
	"github.com/arthur-debert/webup/pkg/ui/display"
)

// Renderer writes a stream of YAML documents separated by "---".
type Renderer struct {
	encoder *yaml.Encoder
}

// New creates a new YAML renderer
func New(output io.Writer) *Renderer {
	encoder := yaml.NewEncoder(output)
	encoder.SetIndent(2)
	return &Renderer{encoder: encoder}
}

// Notify writes the event as one document
func (r *Renderer) Notify(ev types.StageEvent) {
	if err := r.encoder.Encode(display.NewEvent(ev)); err != nil {
		logger := logging.GetLogger("ui")
		logger.Debug().Err(err).Msg("Failed to encode stage event")
	}
}

// RenderStatus renders the status as one document
func (r *Renderer) RenderStatus(s *display.Status) error {
	return r.encoder.Encode(s)
}

// RenderError renders an error document
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{"error": err.Error()})
}

// RenderMessage renders a message document
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
