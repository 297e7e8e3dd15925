package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/expedition/internal/config"
)

// configCommand prints the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML: the config file merged over the
defaults, with environment overrides applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.ConfigPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			printDetail("# %s", path)
			return c.cfg.Write(cmd.OutOrStdout())
		},
	}
}
