// Package styles defines the visual styling for webup's terminal output.
//
// Styles use semantic names and adaptive colors that follow the terminal's
// light or dark background. The definitions live in the embedded
// styles.yaml and are bound to a lipgloss renderer, so colour output
// follows the profile detected for the writer being rendered to.
package styles

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Width      int    `yaml:"width,omitempty"`
	MarginLeft int    `yaml:"marginLeft,omitempty"`
	MarginTop  int    `yaml:"marginTop,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// Registry maps semantic names to styles bound to one renderer.
type Registry map[string]lipgloss.Style

// Get returns the named style, or an unstyled one when the name is unknown.
func (r Registry) Get(name string) lipgloss.Style {
	if s, ok := r[name]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// Render applies the named style to text.
func (r Registry) Render(name, text string) string {
	return r.Get(name).Render(text)
}

// Parse decodes a styles configuration.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse styles data: %w", err)
	}
	return &config, nil
}

// Default returns the embedded configuration.
func Default() *Config {
	config, err := Parse(embeddedStyles)
	if err != nil {
		panic(fmt.Sprintf("embedded styles are invalid: %v", err))
	}
	return config
}

// Build binds every style of config to renderer.
func Build(config *Config, renderer *lipgloss.Renderer) Registry {
	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	registry := make(Registry, len(config.Styles))
	for name, def := range config.Styles {
		registry[name] = buildStyle(renderer.NewStyle(), def, colors)
	}
	return registry
}

// buildStyle constructs a lipgloss style from a style definition
func buildStyle(style lipgloss.Style, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if def.Foreground != "" {
		if color, ok := colors[def.Foreground]; ok {
			style = style.Foreground(color)
		}
	}
	if def.Width > 0 {
		style = style.Width(def.Width)
	}
	if def.MarginLeft > 0 {
		style = style.MarginLeft(def.MarginLeft)
	}
	if def.MarginTop > 0 {
		style = style.MarginTop(def.MarginTop)
	}
	return style
}
