package types

import (
	"path/filepath"
)

// Known environment identities
const (
	EnvColab   = "Colab"
	EnvKaggle  = "Kaggle"
	EnvCustom  = "Custom"
	EnvGeneric = "Generic"
)

// CacheDirName is the shared cache directory created under the base path.
// Target asset folders are symlinked into it rather than copied.
const CacheDirName = "temp"

// Environment is the resolved host environment for one run.
// It is built once by paths.Resolve and passed by value afterwards.
type Environment struct {
	Name     string
	BasePath string
	HomePath string

	// StateDirName is the directory under HomePath holding webup state
	StateDirName string
}

// CachePath returns the shared cache root.
func (e Environment) CachePath() string {
	return filepath.Join(e.BasePath, CacheDirName)
}

// StateDir returns the directory holding the marking record and the
// environment snapshot.
func (e Environment) StateDir() string {
	name := e.StateDirName
	if name == "" {
		name = DefaultStateDirName
	}
	return filepath.Join(e.HomePath, name)
}

// InstallDir returns where the given target's repository is cloned.
func (e Environment) InstallDir(t Target) string {
	return filepath.Join(e.HomePath, t.String())
}

// IsKnown reports whether the environment was matched by a marker
// variable rather than overrides or the cwd fallback.
func (e Environment) IsKnown() bool {
	return e.Name == EnvColab || e.Name == EnvKaggle
}

// DefaultStateDirName is used when configuration does not set one
const DefaultStateDirName = "gutris1"
