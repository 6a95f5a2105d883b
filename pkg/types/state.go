package types

// MarkingRecord is the persisted marker of the last installed target.
// Unknown keys found on disk are preserved by the datastore on merge.
type MarkingRecord struct {
	UI         string `json:"ui" yaml:"ui"`
	LaunchArgs string `json:"launch_args" yaml:"launch_args"`
	Tunnel     string `json:"tunnel" yaml:"tunnel"`
}

// Target resolves the UI field to a Target.
func (m MarkingRecord) Target() (Target, bool) {
	return ParseTarget(m.UI)
}

// MarkingPatch names the fields a save overlays onto the stored record.
// Nil fields keep whatever is on disk.
type MarkingPatch struct {
	UI         *string
	LaunchArgs *string
	Tunnel     *string
}

// InstalledPatch is written after a successful fresh install of t.
func InstalledPatch(t Target) MarkingPatch {
	ui := t.String()
	return MarkingPatch{UI: &ui}
}

// EnvironmentConfig is the snapshot written for downstream launch scripts.
type EnvironmentConfig struct {
	EnvName  string `json:"env_name" yaml:"env_name"`
	HomePath string `json:"home_path" yaml:"home_path"`
	TempPath string `json:"temp_path" yaml:"temp_path"`
	BasePath string `json:"base_path" yaml:"base_path"`
}

// NewEnvironmentConfig builds the snapshot from a resolved environment.
func NewEnvironmentConfig(env Environment) EnvironmentConfig {
	return EnvironmentConfig{
		EnvName:  env.Name,
		HomePath: env.HomePath,
		TempPath: env.CachePath(),
		BasePath: env.BasePath,
	}
}

// Credentials are the validated secrets persisted for helper scripts.
type Credentials struct {
	CivitaiKey  string `json:"civitai_key"`
	HFReadToken string `json:"hf_read_token"`
}
