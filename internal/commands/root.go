// Package commands builds the webup command tree.
package commands

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/webup/internal/version"
	"github.com/arthur-debert/webup/pkg/config"
	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/fetch"
	"github.com/arthur-debert/webup/pkg/filesystem"
	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/types"
	"github.com/arthur-debert/webup/pkg/ui"
)

// Deps are the process collaborators the commands use.
type Deps struct {
	FS     types.FS
	Runner fetch.CommandRunner
	// Repos and Downloader are built once the configuration is loaded
	Repos      func(cfg *config.Config) fetch.RepositorySync
	Downloader func(cfg *config.Config, creds types.Credentials) fetch.Downloader

	LookupEnv func(key string) (string, bool)
	Getwd     func() (string, error)
}

// DefaultDeps wires the real filesystem, go-git, net/http and os/exec.
func DefaultDeps() Deps {
	return Deps{
		FS:     filesystem.NewOS(),
		Runner: fetch.NewExecRunner(),
		Repos: func(cfg *config.Config) fetch.RepositorySync {
			return fetch.NewGitSync(cfg.Fetch.CloneDepth)
		},
		Downloader: func(cfg *config.Config, creds types.Credentials) fetch.Downloader {
			return fetch.NewHTTPDownloader(fetch.HTTPOptions{
				Timeout:    cfg.Fetch.Timeout,
				UserAgent:  cfg.Fetch.UserAgent,
				HFToken:    creds.HFReadToken,
				CivitaiKey: creds.CivitaiKey,
			})
		},
		LookupEnv: os.LookupEnv,
		Getwd:     os.Getwd,
	}
}

// globalOptions holds the persistent flags.
type globalOptions struct {
	verbosity  int
	configPath string
	format     string
	json       bool
}

func (g *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, &ExitError{Code: ExitConfig, Err: errors.Wrap(err, errors.ErrConfigLoad, MsgErrLoadConfig)}
	}
	return cfg, nil
}

func (g *globalOptions) renderer(w io.Writer) (ui.Renderer, error) {
	format := ui.FormatJSON
	if !g.json {
		var err error
		if format, err = ui.ParseFormat(g.format); err != nil {
			return nil, &ExitError{Code: ExitConfig, Err: errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")}
		}
	}
	return ui.NewRenderer(format, w)
}

// NewRootCmd creates the root command with the real collaborators.
func NewRootCmd() *cobra.Command {
	return newRootCmd(DefaultDeps())
}

func newRootCmd(deps Deps) *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "webup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerTo(cmd.ErrOrStderr(), g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().BoolVar(&g.json, "json", false, MsgFlagJSON)

	rootCmd.AddCommand(
		newInstallCmd(deps, g),
		newStatusCmd(deps, g),
		newConfigCmd(g),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return rootCmd
}
