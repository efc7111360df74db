// Package cmd provides the settlrctl subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"settlr/internal/config"
	"settlr/internal/logging"
	"settlr/internal/repository"
)

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "settlrctl",
		Short:         "Maintenance tool for the Settlr rental marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newExtractCmd(),
		newFormatCmd(),
		newSeedCmd(),
		newBackfillCmd(),
		newVerifyCmd(),
	)
	return cmd
}

// Execute runs the root command
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// setup loads configuration and routes logs to stderr so command output
// stays machine readable
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Setup(cfg.Logging)
	logrus.SetOutput(os.Stderr)
	return cfg, nil
}

func openRepository(cfg *config.Config) (*repository.PostgresRepository, error) {
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return repo, nil
}
