package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/webup/pkg/credentials"
	"github.com/arthur-debert/webup/pkg/fetch"
	"github.com/arthur-debert/webup/pkg/logging"
	"github.com/arthur-debert/webup/pkg/orchestrator"
	"github.com/arthur-debert/webup/pkg/types"
)

type installOptions struct {
	webui      string
	civitaiKey string
	hfToken    string
	bgm        string
	baseDir    string
	homeDir    string
}

func newInstallCmd(deps Deps, g *globalOptions) *cobra.Command {
	o := &installOptions{}

	cmd := &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.install")

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			renderer, err := g.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			orch := orchestrator.New(orchestrator.Options{
				FS:     deps.FS,
				Repos:  deps.Repos(cfg),
				Runner: deps.Runner,
				Downloader: func(creds types.Credentials) fetch.Downloader {
					return deps.Downloader(cfg, creds)
				},
				Notifier:  renderer,
				Config:    cfg,
				LookupEnv: deps.LookupEnv,
				Getwd:     deps.Getwd,
			})

			res := orch.Run(cmd.Context(), o.request())
			logger.Info().
				Str("stage", string(res.Stage)).
				Str("target", res.Target.String()).
				Bool("updated", res.Updated).
				Msg("Install command finished")

			if res.Stage != types.StageDone {
				return exitFor(res)
			}
			msg := MsgInstalledFormat
			if res.Updated {
				msg = MsgUpdatedFormat
			}
			return renderer.RenderMessage(fmt.Sprintf(msg, res.Target, res.Environment.InstallDir(res.Target)))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.webui, "webui", "", MsgFlagWebUI)
	flags.StringVar(&o.civitaiKey, "civitai-key", "", MsgFlagCivitaiKey)
	flags.StringVar(&o.hfToken, "hf-token", "", MsgFlagHFToken)
	flags.StringVar(&o.bgm, "bgm", "", MsgFlagBGM)
	flags.StringVar(&o.baseDir, "base-dir", "", MsgFlagBaseDir)
	flags.StringVar(&o.homeDir, "home-dir", "", MsgFlagHomeDir)

	_ = cmd.RegisterFlagCompletionFunc("webui", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return types.TargetNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// request leaves every check to the orchestrator so that invalid input
// ends in the Aborted stage like any other run.
func (o *installOptions) request() orchestrator.Request {
	return orchestrator.Request{
		Input: credentials.Input{
			Target: o.webui,
			APIKey: o.civitaiKey,
			Token:  o.hfToken,
			BGM:    o.bgm,
		},
		BaseDir: o.baseDir,
		HomeDir: o.homeDir,
	}
}

