// Package cli wires the nskbot commands.
package cli

import (
	"github.com/spf13/cobra"
)

// DefaultConfigPath is used when neither --config nor CONFIG_PATH is set.
const DefaultConfigPath = "config.yaml"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the nskbot root command. Without a subcommand it runs the bot.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	run := NewRunCommand(opts)
	cmd := &cobra.Command{
		Use:           "nskbot",
		Short:         "nsk registration bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run.RunE,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config.yaml (default $CONFIG_PATH or "+DefaultConfigPath+")")

	cmd.AddCommand(run)
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
