package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/webup/pkg/config"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showPath {
				path := g.configPath
				if path == "" {
					path = config.DefaultConfigPath()
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
				return err
			}

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Render(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&showPath, "path", false, MsgFlagPath)
	return cmd
}
