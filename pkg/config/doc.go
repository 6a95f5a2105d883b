// Package config loads webup's runtime configuration.
//
// Configuration is layered with koanf, later layers overriding earlier ones:
//
//  1. Embedded defaults (embedded/defaults.toml)
//  2. The user config file: --config, or $XDG_CONFIG_HOME/webup/config.toml
//     (config.yaml / config.yml are accepted too)
//  3. WEBUP_* environment variables, e.g. WEBUP_FETCH_WORKERS=8
//
// The per-target layout tables are deliberately not configurable; they live
// in pkg/layout because the web UIs expect those directory names literally.
package config
