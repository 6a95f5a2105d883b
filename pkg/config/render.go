package config

import (
	toml "github.com/pelletier/go-toml/v2"
)

// renderView mirrors Config with toml tags and a readable timeout.
type renderView struct {
	Fetch struct {
		Workers    int    `toml:"workers"`
		Timeout    string `toml:"timeout"`
		UserAgent  string `toml:"user_agent"`
		CloneDepth int    `toml:"clone_depth"`
	} `toml:"fetch"`
	State struct {
		Dir         string `toml:"dir"`
		MarkingFile string `toml:"marking_file"`
		EnvFile     string `toml:"env_file"`
		KeyFile     string `toml:"key_file"`
	} `toml:"state"`
	Runtime struct {
		Enabled  bool   `toml:"enabled"`
		Dir      string `toml:"dir"`
		URL      string `toml:"url"`
		ComfyURL string `toml:"comfy_url"`
	} `toml:"runtime"`
	Tools struct {
		Enabled bool   `toml:"enabled"`
		BinDir  string `toml:"bin_dir"`
	} `toml:"tools"`
}

// Render returns the effective configuration as TOML, suitable as a
// starting point for a user config file.
func Render(cfg *Config) ([]byte, error) {
	var v renderView
	v.Fetch.Workers = cfg.Fetch.Workers
	v.Fetch.Timeout = cfg.Fetch.Timeout.String()
	v.Fetch.UserAgent = cfg.Fetch.UserAgent
	v.Fetch.CloneDepth = cfg.Fetch.CloneDepth
	v.State.Dir = cfg.State.Dir
	v.State.MarkingFile = cfg.State.MarkingFile
	v.State.EnvFile = cfg.State.EnvFile
	v.State.KeyFile = cfg.State.KeyFile
	v.Runtime.Enabled = cfg.Runtime.Enabled
	v.Runtime.Dir = cfg.Runtime.Dir
	v.Runtime.URL = cfg.Runtime.URL
	v.Runtime.ComfyURL = cfg.Runtime.ComfyURL
	v.Tools.Enabled = cfg.Tools.Enabled
	v.Tools.BinDir = cfg.Tools.BinDir
	return toml.Marshal(v)
}
