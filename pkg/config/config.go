package config

import (
	"time"
)

// Config holds every tunable webup reads at startup.
type Config struct {
	Fetch   Fetch   `koanf:"fetch"`
	State   State   `koanf:"state"`
	Runtime Runtime `koanf:"runtime"`
	Tools   Tools   `koanf:"tools"`
}

// Fetch configures downloads and git operations.
type Fetch struct {
	// Workers bounds concurrent asset downloads
	Workers    int           `koanf:"workers"`
	Timeout    time.Duration `koanf:"timeout"`
	UserAgent  string        `koanf:"user_agent"`
	CloneDepth int           `koanf:"clone_depth"`
}

// State names the files the datastore writes under the state directory.
type State struct {
	Dir         string `koanf:"dir"`
	MarkingFile string `koanf:"marking_file"`
	EnvFile     string `koanf:"env_file"`
	KeyFile     string `koanf:"key_file"`
}

// Runtime controls the optional portable Python bootstrap.
type Runtime struct {
	Enabled  bool   `koanf:"enabled"`
	Dir      string `koanf:"dir"`
	URL      string `koanf:"url"`
	ComfyURL string `koanf:"comfy_url"`
}

// Tools controls tunnel binary downloads.
type Tools struct {
	Enabled bool   `koanf:"enabled"`
	BinDir  string `koanf:"bin_dir"`
}
