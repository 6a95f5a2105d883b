package commands

import (
	_ "embed"
	"strings"

	"github.com/arthur-debert/webup/pkg/types"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Install Stable Diffusion web UIs on notebook hosts"
	MsgInstallShort    = "Install a web UI, or update the one already installed"
	MsgStatusShort     = "Show the recorded install and the health of its links"
	MsgConfigShort     = "Print the effective configuration as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Result messages
	MsgInstalledFormat = "%s is installed in %s"
	MsgUpdatedFormat   = "%s is up to date in %s"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration"
	MsgErrStatus     = "failed to inspect install"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Config file (default $XDG_CONFIG_HOME/webup/config.toml)"
	MsgFlagFormat     = "Output format: auto, term, text, json or yaml"
	MsgFlagJSON       = "Shorthand for --format json"
	MsgFlagCivitaiKey = "CivitAI API key"
	MsgFlagHFToken    = "Hugging Face read token"
	MsgFlagBGM        = "YouTube video ID played while installing"
	MsgFlagBaseDir    = "Directory holding the shared cache (needs --home-dir)"
	MsgFlagHomeDir    = "Directory the web UI is installed into (needs --base-dir)"
	MsgFlagPath       = "Print the user config file path and exit"
)

// MsgFlagWebUI lists the accepted targets.
var MsgFlagWebUI = "Web UI to install (" + strings.Join(types.TargetNames(), ", ") + ")"

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/install-long.txt
	msgInstallLongRaw string
	MsgInstallLong    = strings.TrimSpace(msgInstallLongRaw)

	//go:embed msgs/install-example.txt
	msgInstallExampleRaw string
	MsgInstallExample    = strings.TrimSpace(msgInstallExampleRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
