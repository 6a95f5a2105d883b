package datastore

import (
	"github.com/arthur-debert/webup/pkg/config"
	"github.com/arthur-debert/webup/pkg/types"
)

// StateStore reads and writes webup's state directory. No other component
// writes these files.
type StateStore interface {
	// LoadMarking returns the stored marking record, or nil when none exists.
	LoadMarking() (*types.MarkingRecord, error)

	// SaveMarking overlays the patch onto the stored record. Keys it does
	// not know about are kept.
	SaveMarking(patch types.MarkingPatch) error

	// SaveEnvironmentConfig overwrites the environment snapshot.
	SaveEnvironmentConfig(cfg types.EnvironmentConfig) error

	// LoadEnvironmentConfig parses the snapshot back, or nil when absent.
	LoadEnvironmentConfig() (*types.EnvironmentConfig, error)

	// SaveCredentials writes the API credentials readable by the owner only.
	SaveCredentials(creds types.Credentials) error
}

// Files names the state files inside the state directory.
type Files struct {
	Marking string
	Env     string
	Key     string
}

// DefaultFiles matches the embedded configuration defaults.
func DefaultFiles() Files {
	return Files{
		Marking: "marking.json",
		Env:     "KANDANG.py",
		Key:     "api-key.json",
	}
}

// FilesFromConfig takes the file names from the state section.
func FilesFromConfig(state config.State) Files {
	return Files{
		Marking: state.MarkingFile,
		Env:     state.EnvFile,
		Key:     state.KeyFile,
	}
}

// ForEnvironment opens the store in env's state directory.
func ForEnvironment(fsys types.FS, env types.Environment, state config.State) StateStore {
	return New(fsys, env.StateDir(), FilesFromConfig(state))
}
