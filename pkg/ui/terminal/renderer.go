// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/topology"
	"github.com/arthur-debert/webup/pkg/types"
	"github.com/arthur-debert/webup/pkg/ui/display"
	"github.com/arthur-debert/webup/pkg/ui/styles"
)

// Renderer writes styled progress lines and status reports.
type Renderer struct {
	output io.Writer
	styles styles.Registry
}

// New creates a renderer whose colour profile is detected from w.
func New(w io.Writer) *Renderer {
	return newRenderer(w, lipgloss.NewRenderer(w))
}

// NewWithProfile creates a renderer with a fixed colour profile.
func NewWithProfile(w io.Writer, profile termenv.Profile) *Renderer {
	lr := lipgloss.NewRenderer(w)
	lr.SetColorProfile(profile)
	return newRenderer(w, lr)
}

func newRenderer(w io.Writer, lr *lipgloss.Renderer) *Renderer {
	return &Renderer{
		output: w,
		styles: styles.Build(styles.Default(), lr),
	}
}

// Notify renders one progress line. Start is not shown.
func (r *Renderer) Notify(ev types.StageEvent) {
	e := display.NewEvent(ev)

	var line string
	switch {
	case e.IsStep():
		line = r.styles.Render("StepName", e.Step) + r.styles.Render("Step", e.Message)
	case e.Stage == types.StageStart:
		return
	case e.Stage == types.StageDone:
		line = r.styles.Render("Success", "✓ Done") + " " + r.styles.Render("Target", e.Target)
	case e.Stage == types.StageFailed:
		line = r.styles.Render("Error", "✗ Failed") + " " + e.Error
	case e.Stage == types.StageAborted:
		line = r.styles.Render("Warning", "! Aborted") + " " + e.Error
	default:
		line = r.styles.Render("StageHeader", "▸ "+display.StageTitle(e.Stage))
		if e.Stage == types.StageFreshInstalling || e.Stage == types.StageUpdatingExisting {
			line += " " + r.styles.Render("Target", e.Target)
		}
	}

	if _, err := fmt.Fprintln(r.output, line); err != nil {
		logger := logging.GetLogger("ui")
		logger.Debug().Err(err).Msg("Failed to write progress line")
	}
}

// RenderStatus renders the environment, the recorded install and the
// state of every planned link.
func (r *Renderer) RenderStatus(s *display.Status) error {
	var b strings.Builder

	b.WriteString(r.styles.Render("Section", "Environment") + "\n")
	r.field(&b, "name", s.Environment.Name)
	r.field(&b, "base", s.Environment.BasePath)
	r.field(&b, "home", s.Environment.HomePath)
	r.field(&b, "cache", s.Environment.CachePath)
	r.field(&b, "state", s.Environment.StateDir)
	if s.Snapshot != nil {
		r.field(&b, "recorded", s.Snapshot.EnvName)
	}

	b.WriteString(r.styles.Render("Section", "Install") + "\n")
	if s.Installed == "" {
		r.field(&b, "target", r.styles.Render("Muted", "none"))
	} else {
		r.field(&b, "target", r.styles.Render("Target", s.Installed))
		r.field(&b, "directory", s.InstallDir)
		checkout := r.styles.Render("Success", "present")
		if !s.Checkout {
			checkout = r.styles.Render("Error", "missing")
		}
		r.field(&b, "checkout", checkout)
	}

	if len(s.Links) > 0 {
		header := fmt.Sprintf("Links (%d ok, %d broken)", len(s.Links)-s.Broken(), s.Broken())
		b.WriteString(r.styles.Render("Section", header) + "\n")
		for _, l := range s.Links {
			if l.State == topology.LinkOK {
				b.WriteString("  " + r.styles.Render("LinkOK", "✓") + " " + l.Dest + " -> " + l.Source + "\n")
				continue
			}
			detail := string(l.State)
			if l.Actual != "" {
				detail += ": " + l.Actual
			}
			b.WriteString("  " + r.styles.Render("LinkBroken", "✗") + " " + l.Dest + " " +
				r.styles.Render("Muted", "("+detail+")") + "\n")
		}
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) field(b *strings.Builder, key, value string) {
	b.WriteString("  " + r.styles.Render("Key", key) + r.styles.Render("Value", value) + "\n")
}

// RenderError renders an error in the error style
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, r.styles.Render("Error", "Error:")+" "+err.Error())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
