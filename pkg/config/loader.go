package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/webup/pkg/errors"
)

// EnvPrefix is the prefix of environment overrides
const EnvPrefix = "WEBUP_"

// DefaultConfigPath returns $XDG_CONFIG_HOME/webup/config.toml
func DefaultConfigPath() string {
	configHome := xdg.ConfigHome
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		configHome = dir
	}
	return filepath.Join(configHome, "webup", "config.toml")
}

// Load builds the configuration. An empty path looks for the default user
// config file and silently skips it when absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config file
	userPath, err := resolveUserConfig(path)
	if err != nil {
		return nil, err
	}
	if userPath != "" {
		parser, err := parserFor(userPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(userPath), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", userPath)
		}
	}

	// 3. Env vars: WEBUP_FETCH_USER_AGENT -> fetch.user_agent
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Unmarshal
	return unmarshal(k)
}

// Defaults returns the embedded defaults alone, without user file or env.
func Defaults() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	cfg, err := unmarshal(k)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveUserConfig returns the user config path to load, or "" for none
func resolveUserConfig(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not readable", path)
		}
		return path, nil
	}

	dir := filepath.Dir(DefaultConfigPath())
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config extension: %s", ext)
	}
}

func validate(cfg *Config) error {
	if cfg.Fetch.Workers < 1 {
		return errors.Newf(errors.ErrConfigParse, "fetch.workers must be at least 1, got %d", cfg.Fetch.Workers)
	}
	if cfg.Fetch.Timeout <= 0 {
		return errors.New(errors.ErrConfigParse, "fetch.timeout must be positive")
	}
	if cfg.Fetch.CloneDepth < 0 {
		return errors.New(errors.ErrConfigParse, "fetch.clone_depth cannot be negative")
	}
	for key, name := range map[string]string{
		"state.dir":          cfg.State.Dir,
		"state.marking_file": cfg.State.MarkingFile,
		"state.env_file":     cfg.State.EnvFile,
		"state.key_file":     cfg.State.KeyFile,
	} {
		if name == "" {
			return errors.Newf(errors.ErrConfigParse, "%s cannot be empty", key)
		}
		if strings.ContainsAny(name, `/\`) {
			return errors.Newf(errors.ErrConfigParse, "%s must be a plain name, got %q", key, name)
		}
	}
	return nil
}
