// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"

	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/types"
	"github.com/arthur-debert/webup/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// Notify writes one line per transition and step.
func (r *Renderer) Notify(ev types.StageEvent) {
	e := display.NewEvent(ev)

	var line string
	switch {
	case e.IsStep():
		line = fmt.Sprintf("    %s: %s", e.Step, e.Message)
	case e.Stage == types.StageStart:
		return
	case e.Stage == types.StageDone:
		line = "Done: " + e.Target
	case e.Stage == types.StageFailed, e.Stage == types.StageAborted:
		line = fmt.Sprintf("%s: %s", display.StageTitle(e.Stage), e.Error)
	case e.Target != "" && (e.Stage == types.StageFreshInstalling || e.Stage == types.StageUpdatingExisting):
		line = fmt.Sprintf("==> %s %s", display.StageTitle(e.Stage), e.Target)
	default:
		line = "==> " + display.StageTitle(e.Stage)
	}

	if _, err := fmt.Fprintln(r.output, line); err != nil {
		logger := logging.GetLogger("ui")
		logger.Debug().Err(err).Msg("Failed to write progress line")
	}
}

// RenderStatus writes the status as key: value lines.
func (r *Renderer) RenderStatus(s *display.Status) error {
	lines := []string{
		"environment: " + s.Environment.Name,
		"base_path: " + s.Environment.BasePath,
		"home_path: " + s.Environment.HomePath,
		"cache_path: " + s.Environment.CachePath,
		"state_dir: " + s.Environment.StateDir,
	}
	if s.Snapshot != nil {
		lines = append(lines, "recorded_environment: "+s.Snapshot.EnvName)
	}
	if s.Installed == "" {
		lines = append(lines, "installed: none")
	} else {
		lines = append(lines,
			"installed: "+s.Installed,
			"install_dir: "+s.InstallDir,
			fmt.Sprintf("checkout: %t", s.Checkout),
		)
	}
	for _, l := range s.Links {
		line := fmt.Sprintf("link: %s -> %s [%s]", l.Dest, l.Source, l.State)
		if l.Actual != "" {
			line += " actual=" + l.Actual
		}
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("healthy: %t", s.Healthy))

	for _, line := range lines {
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message as plain text
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
