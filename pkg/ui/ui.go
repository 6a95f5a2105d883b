// Package ui renders install progress and status reports.
// It supports terminal (rich), text (plain), JSON and YAML output formats.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/webup/pkg/types"
	"github.com/arthur-debert/webup/pkg/ui/display"
	"github.com/arthur-debert/webup/pkg/ui/json"
	"github.com/arthur-debert/webup/pkg/ui/terminal"
	"github.com/arthur-debert/webup/pkg/ui/text"
	"github.com/arthur-debert/webup/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers.
// Every renderer is also an orchestrator notifier.
type Renderer interface {
	// Notify renders one stage transition or step
	Notify(ev types.StageEvent)

	// RenderStatus renders the report of `webup status`
	RenderStatus(status *display.Status) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	case FormatYAML:
		return yaml.New(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
