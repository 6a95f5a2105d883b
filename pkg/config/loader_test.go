package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/webup/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG_CONFIG_HOME-derived lookups at an empty directory so a
// developer's own config never leaks into tests
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Fetch.Workers)
	assert.Equal(t, 30*time.Minute, cfg.Fetch.Timeout)
	assert.Equal(t, "webup", cfg.Fetch.UserAgent)
	assert.Equal(t, "gutris1", cfg.State.Dir)
	assert.Equal(t, "marking.json", cfg.State.MarkingFile)
	assert.Equal(t, "KANDANG.py", cfg.State.EnvFile)
	assert.False(t, cfg.Runtime.Enabled)
	assert.True(t, cfg.Tools.Enabled)
}

func TestLoadTOMLFile(t *testing.T) {
	isolate(t)
	p := writeTempFile(t, t.TempDir(), "webup.toml", `
[fetch]
workers = 2
timeout = "90s"

[state]
dir = ".webup"
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Fetch.Workers)
	assert.Equal(t, 90*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, ".webup", cfg.State.Dir)
	// untouched keys keep their defaults
	assert.Equal(t, "marking.json", cfg.State.MarkingFile)
}

func TestLoadYAMLFile(t *testing.T) {
	isolate(t)
	p := writeTempFile(t, t.TempDir(), "webup.yaml", "fetch:\n  workers: 5\ntools:\n  enabled: false\n")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Fetch.Workers)
	assert.False(t, cfg.Tools.Enabled)
}

func TestLoadDefaultUserFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "webup"), 0755))
	writeTempFile(t, filepath.Join(dir, "webup"), "config.toml", "[fetch]\nworkers = 3\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Fetch.Workers)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("WEBUP_FETCH_WORKERS", "7")
	t.Setenv("WEBUP_FETCH_USER_AGENT", "custom-agent")
	t.Setenv("WEBUP_STATE_MARKING_FILE", "mark.json")
	t.Setenv("WEBUP_RUNTIME_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Fetch.Workers)
	assert.Equal(t, "custom-agent", cfg.Fetch.UserAgent)
	assert.Equal(t, "mark.json", cfg.State.MarkingFile)
	assert.True(t, cfg.Runtime.Enabled)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)
	d := t.TempDir()

	tests := []struct {
		name string
		path string
		code errors.ErrorCode
	}{
		{"missing explicit file", filepath.Join(d, "nope.toml"), errors.ErrConfigLoad},
		{"unsupported extension", writeTempFile(t, d, "cfg.txt", "x"), errors.ErrConfigLoad},
		{"invalid toml", writeTempFile(t, d, "bad.toml", "[fetch\nworkers="), errors.ErrConfigParse},
		{"zero workers", writeTempFile(t, d, "zero.toml", "[fetch]\nworkers = 0\n"), errors.ErrConfigParse},
		{"state file with slash", writeTempFile(t, d, "slash.toml", "[state]\nmarking_file = \"a/b.json\"\n"), errors.ErrConfigParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestRender(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	out, err := Render(cfg)
	require.NoError(t, err)

	var back map[string]map[string]interface{}
	require.NoError(t, toml.Unmarshal(out, &back))
	assert.Equal(t, "30m0s", back["fetch"]["timeout"])
	assert.Equal(t, "gutris1", back["state"]["dir"])
	assert.Equal(t, int64(4), back["fetch"]["workers"])
}

func TestDefaultsIgnoresEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("WEBUP_FETCH_WORKERS", "9")

	cfg := Defaults()
	assert.Equal(t, 4, cfg.Fetch.Workers)
	assert.Equal(t, "/usr/bin", cfg.Tools.BinDir)
}
