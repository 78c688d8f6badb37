// Command taskflow manages a personal task list from the terminal or Telegram.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskflow/internal/app"
	"taskflow/internal/config"
	"taskflow/internal/i18n"
)

type cli struct {
	configPath string
	driver     string
	dsn        string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
	app    *app.App
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit code. A panic in any
// command is reported with the generic error text.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer func() {
		if r := recover(); r != nil {
			if c.logger != nil {
				c.logger.Error("command panic", zap.Any("panic", r))
			}
			fmt.Fprintf(stderr, "%s\n%s\n", i18n.T("errorOccurred"), i18n.T("errorMessage"))
			c.close()
			code = 1
		}
	}()

	if err := root.ExecuteContext(ctx); err != nil {
		c.close()
		return 1
	}
	return 0
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "TaskFlow - personal task manager",
		Long: `TaskFlow keeps a small personal task list with priorities, categories
and due dates. Data lives in SQLite by default; Redis and an in-memory
backend are also available.

Run "taskflow bot" to serve the same list over Telegram.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "path to YAML config (default $TASKFLOW_CONFIG)")
	flags.StringVar(&c.driver, "driver", "", "storage driver: sqlite, redis or memory")
	flags.StringVar(&c.dsn, "dsn", "", "SQLite database path")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.addCmd(),
		c.editCmd(),
		c.toggleCmd(),
		c.deleteCmd(),
		c.listCmd(),
		c.showCmd(),
		c.statsCmd(),
		c.themeCmd(),
		c.settingsCmd(),
		c.profileCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.clearCmd(),
		c.botCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.driver != "" {
		cfg.Storage.Driver = c.driver
	}
	if c.dsn != "" {
		cfg.Storage.DSN = c.dsn
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.cfg = cfg

	c.logger, err = newLogger(cfg.LogLevel, c.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.app, err = app.New(cmd.Context(), cfg, c.logger)
	if err != nil {
		return err
	}
	return nil
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = lvl
	}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

func (c *cli) close() {
	if c.app != nil {
		if err := c.app.Close(); err != nil && c.logger != nil {
			c.logger.Warn("close storage", zap.Error(err))
		}
		c.app = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
