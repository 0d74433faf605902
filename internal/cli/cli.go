// Package cli implements the management commands: schema migrations, user
// creation, fixture seeding and capacity edits.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Domenick1991/airline/config"
	"github.com/Domenick1991/airline/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

type CLI struct {
	rootCmd *cobra.Command
	cfg     *config.Config
	logger  *slog.Logger

	configPath string
}

func New() *CLI {
	c := &CLI{}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the command line and returns the process exit code.
func (c *CLI) Execute() int {
	if err := c.rootCmd.Execute(); err != nil {
		fmt.Fprintf(c.rootCmd.ErrOrStderr(), "manage: %v\n", err)
		return ExitFailure
	}
	return ExitSuccess
}

func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "manage",
		Short:         "Airline management commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $CONFIG_PATH or config.yaml)")

	cmd.AddCommand(c.newMigrateCmd())
	cmd.AddCommand(c.newCreateUserCmd())
	cmd.AddCommand(c.newSeedCmd())
	cmd.AddCommand(c.newSetCapacityCmd())

	return cmd
}

func (c *CLI) initConfig() error {
	path := c.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logging.New(cfg.Log, os.Stderr)
	return nil
}

func (c *CLI) connect(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, c.cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}
