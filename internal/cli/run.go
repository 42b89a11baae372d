package cli

import (
	"context"

	"github.com/spf13/cobra"

	corecmd "github.com/dobryakk5/nsk/core/cmd"
	"github.com/dobryakk5/nsk/internal/bot"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the bot until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return corecmd.Run(runOptions(rootOpts))
		},
	}
}

func runOptions(rootOpts *RootOptions) corecmd.Options {
	return corecmd.Options{
		ConfigPath:        rootOpts.ConfigPath,
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: DefaultConfigPath,
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(ctx context.Context, cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.New(ctx, cfg.(*bot.Config))
		},
	}
}
