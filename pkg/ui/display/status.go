package display

import (
	"github.com/arthur-debert/webup/pkg/topology"
	"github.com/arthur-debert/webup/pkg/types"
)

// Status is what `webup status` reports about one host.
type Status struct {
	Environment Environment `json:"environment" yaml:"environment"`

	// Installed is the target named by the marking record, empty when none
	Installed  string               `json:"installed,omitempty" yaml:"installed,omitempty"`
	InstallDir string               `json:"install_dir,omitempty" yaml:"install_dir,omitempty"`
	Checkout   bool                 `json:"checkout" yaml:"checkout"`
	Marking    *types.MarkingRecord `json:"marking,omitempty" yaml:"marking,omitempty"`

	// Snapshot is the environment recorded by the last install
	Snapshot *types.EnvironmentConfig `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`

	Links   []topology.LinkStatus `json:"links,omitempty" yaml:"links,omitempty"`
	Healthy bool                  `json:"healthy" yaml:"healthy"`
}

// Environment is the resolved environment plus the paths derived from it.
type Environment struct {
	Name      string `json:"name" yaml:"name"`
	BasePath  string `json:"base_path" yaml:"base_path"`
	HomePath  string `json:"home_path" yaml:"home_path"`
	CachePath string `json:"cache_path" yaml:"cache_path"`
	StateDir  string `json:"state_dir" yaml:"state_dir"`
}

// NewEnvironment derives the view from a resolved environment.
func NewEnvironment(env types.Environment) Environment {
	return Environment{
		Name:      env.Name,
		BasePath:  env.BasePath,
		HomePath:  env.HomePath,
		CachePath: env.CachePath(),
		StateDir:  env.StateDir(),
	}
}

// Broken counts links whose state is anything but ok.
func (s *Status) Broken() int {
	n := 0
	for _, l := range s.Links {
		if l.State != topology.LinkOK {
			n++
		}
	}
	return n
}
