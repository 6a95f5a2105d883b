package ui_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/webup/pkg/ui"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   ui.Format
		expected string
	}{
		{ui.FormatAuto, "auto"},
		{ui.FormatTerminal, "term"},
		{ui.FormatText, "text"},
		{ui.FormatJSON, "json"},
		{ui.FormatYAML, "yaml"},
		{ui.Format(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.String())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ui.Format
		wantErr  bool
	}{
		{name: "parse auto", input: "auto", expected: ui.FormatAuto},
		{name: "parse empty string as auto", input: "", expected: ui.FormatAuto},
		{name: "parse term", input: "term", expected: ui.FormatTerminal},
		{name: "parse terminal", input: "terminal", expected: ui.FormatTerminal},
		{name: "parse text", input: "text", expected: ui.FormatText},
		{name: "parse plain", input: "plain", expected: ui.FormatText},
		{name: "parse json", input: "json", expected: ui.FormatJSON},
		{name: "parse yaml", input: "yaml", expected: ui.FormatYAML},
		{name: "parse yml", input: "yml", expected: ui.FormatYAML},
		{name: "parse uppercase term", input: "TERM", expected: ui.FormatTerminal},
		{name: "parse mixed case JSON", input: "Json", expected: ui.FormatJSON},
		{name: "parse invalid format", input: "invalid", expected: ui.FormatAuto, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := ui.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "unknown format")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	t.Run("pipe is plain text", func(t *testing.T) {
		assert.Equal(t, ui.FormatText, ui.DetectFormat(w))
	})

	t.Run("NO_COLOR forces plain text", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, ui.FormatText, ui.DetectFormat(w))
	})
}
