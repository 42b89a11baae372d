package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	corecmd "github.com/dobryakk5/nsk/core/cmd"
	coreconfig "github.com/dobryakk5/nsk/core/config"
	coredatabase "github.com/dobryakk5/nsk/core/database"
	"github.com/dobryakk5/nsk/core/logger"
)

// migrateConfig is the subset of the bot config the migrate commands need.
// The telegram section is not validated, so migrations run without a token.
type migrateConfig struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
}

// NewMigrateCommand creates the migrate command and its up/down/version subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, rootOpts, func(ctx context.Context, db coredatabase.Config) (coredatabase.MigrationStatus, error) {
				return coredatabase.RunMigrations(ctx, db)
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations (all unless --steps is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, rootOpts, func(ctx context.Context, db coredatabase.Config) (coredatabase.MigrationStatus, error) {
				return coredatabase.RollbackMigrations(ctx, db, steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert; 0 reverts everything")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, rootOpts, coredatabase.MigrationVersion)
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func loadMigrateConfig(path string) (*migrateConfig, error) {
	var cfg migrateConfig
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Database.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func withDatabase(cmd *cobra.Command, rootOpts *RootOptions, op func(context.Context, coredatabase.Config) (coredatabase.MigrationStatus, error)) error {
	path, err := corecmd.ResolveConfigPath(corecmd.Options{
		ConfigPath:        rootOpts.ConfigPath,
		DefaultConfigPath: DefaultConfigPath,
	})
	if err != nil {
		return err
	}
	cfg, err := loadMigrateConfig(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.InitLogger(&cfg.Config); err != nil {
		return err
	}
	defer func() { _ = logger.Shutdown() }()

	status, err := op(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), status)
	return nil
}

func printStatus(w io.Writer, s coredatabase.MigrationStatus) {
	dirty := ""
	if s.Dirty {
		dirty = " (dirty)"
	}
	if s.From == s.To {
		fmt.Fprintf(w, "schema version %d%s\n", s.To, dirty)
		return
	}
	fmt.Fprintf(w, "schema version %d -> %d%s\n", s.From, s.To, dirty)
	if len(s.Applied) > 0 {
		fmt.Fprintf(w, "applied: %s\n", strings.Join(s.Applied, ", "))
	}
}
