package paths

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/types"
)

// Environment variable names
const (
	// EnvColabMarker is set inside Google Colab runtimes
	EnvColabMarker = "COLAB_JUPYTER_TOKEN"

	// EnvKaggleMarker is set inside Kaggle kernels
	EnvKaggleMarker = "KAGGLE_DATA_PROXY_TOKEN"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// knownEnvironment binds a marker variable to fixed paths.
type knownEnvironment struct {
	name   string
	base   string
	home   string
	marker string
}

// Checked in order; the first marker present wins.
var knownEnvironments = []knownEnvironment{
	{name: types.EnvColab, base: "/content", home: "/content", marker: EnvColabMarker},
	{name: types.EnvKaggle, base: "/kaggle", home: "/kaggle/working", marker: EnvKaggleMarker},
}

// Options carries the explicit overrides plus the process snapshot the
// resolver reads. Nil functions default to the os package.
type Options struct {
	BaseDir string
	HomeDir string

	// StateDirName names the state directory under the home path
	StateDirName string

	LookupEnv func(key string) (string, bool)
	Getwd     func() (string, error)
}

// Resolve determines the environment identity and its base and home paths.
func Resolve(opts Options) types.Environment {
	logger := logging.GetLogger("paths")

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	getwd := opts.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}

	env := types.Environment{StateDirName: opts.StateDirName}

	if opts.BaseDir != "" && opts.HomeDir != "" {
		env.Name = types.EnvCustom
		env.BasePath = absolute(expandHome(opts.BaseDir, lookup))
		env.HomePath = absolute(expandHome(opts.HomeDir, lookup))
		logger.Info().
			Str("base", env.BasePath).
			Str("home", env.HomePath).
			Msg("Using user-defined paths")
		return env
	}

	if opts.BaseDir != "" || opts.HomeDir != "" {
		logger.Warn().Msg("Both --base-dir and --home-dir are required to override paths, ignoring the one given")
	}

	for _, known := range knownEnvironments {
		if _, ok := lookup(known.marker); ok {
			env.Name = known.name
			env.BasePath = known.base
			env.HomePath = known.home
			logger.Info().Str("environment", known.name).Msg("Detected environment")
			return env
		}
	}

	cwd, err := getwd()
	if err != nil {
		detectErr := errors.Wrap(err, errors.ErrEnvDetect, "failed to get current directory")
		logger.Warn().Err(detectErr).Msg("Falling back to relative working directory")
		cwd = "."
	}
	cwd = absolute(cwd)

	env.Name = types.EnvGeneric
	env.BasePath = cwd
	env.HomePath = cwd
	logger.Warn().
		Str("cwd", cwd).
		Msg("No known cloud environment detected, using generic setup (override with --base-dir and --home-dir)")
	return env
}

// EnsureDirs creates the shared cache root and state directory.
// Callers must only invoke it after input validation succeeded.
func EnsureDirs(fs types.FS, env types.Environment) error {
	for _, dir := range []string{env.CachePath(), env.StateDir()} {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
		}
	}
	return nil
}

func absolute(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

// expandHome expands a leading ~ using HOME
func expandHome(path string, lookup func(string) (string, bool)) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, ok := lookup(EnvHome)
	if !ok || homeDir == "" {
		var err error
		homeDir, err = os.UserHomeDir()
		if err != nil {
			// Can't expand, return as-is
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
