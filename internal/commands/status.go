package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/webup/pkg/config"
	"github.com/arthur-debert/webup/pkg/datastore"
	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/layout"
	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/paths"
	"github.com/arthur-debert/webup/pkg/topology"
	"github.com/arthur-debert/webup/pkg/ui/display"
)

type statusOptions struct {
	baseDir string
	homeDir string
}

func newStatusCmd(deps Deps, g *globalOptions) *cobra.Command {
	o := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Long:  MsgStatusLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if err := paths.ValidateOverrides(o.baseDir, o.homeDir); err != nil {
				return &ExitError{Code: ExitConfig, Err: err}
			}
			renderer, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			status, err := inspect(deps, cfg, o)
			if err != nil {
				return errors.Wrap(err, errors.ErrStateRead, MsgErrStatus)
			}
			return renderer.RenderStatus(status)
		},
	}

	cmd.Flags().StringVar(&o.baseDir, "base-dir", "", MsgFlagBaseDir)
	cmd.Flags().StringVar(&o.homeDir, "home-dir", "", MsgFlagHomeDir)
	return cmd
}

// inspect builds the status report without writing anything.
func inspect(deps Deps, cfg *config.Config, o *statusOptions) (*display.Status, error) {
	logger := logging.GetLogger("cmd.status")

	env := paths.Resolve(paths.Options{
		BaseDir:      o.baseDir,
		HomeDir:      o.homeDir,
		StateDirName: cfg.State.Dir,
		LookupEnv:    deps.LookupEnv,
		Getwd:        deps.Getwd,
	})
	store := datastore.ForEnvironment(deps.FS, env, cfg.State)

	status := &display.Status{Environment: display.NewEnvironment(env)}

	snapshot, err := store.LoadEnvironmentConfig()
	if err != nil {
		logger.Warn().Err(err).Msg("Ignoring unreadable environment snapshot")
	}
	status.Snapshot = snapshot

	marking, err := store.LoadMarking()
	if err != nil {
		logger.Warn().Err(err).Msg("Ignoring unreadable marking record")
		return status, nil
	}
	status.Marking = marking
	if marking == nil {
		return status, nil
	}

	target, ok := marking.Target()
	if !ok {
		logger.Warn().Str("ui", marking.UI).Msg("Marking names an unknown web UI")
		return status, nil
	}
	status.Installed = target.String()
	status.InstallDir = env.InstallDir(target)
	if _, err := deps.FS.Stat(filepath.Join(status.InstallDir, ".git")); err == nil {
		status.Checkout = true
	}

	links, err := topology.NewEngine(deps.FS).Verify(layout.Plan(target, env))
	if err != nil {
		return nil, err
	}
	status.Links = links
	status.Healthy = status.Checkout && topology.Healthy(links)
	return status, nil
}

