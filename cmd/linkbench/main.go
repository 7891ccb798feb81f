package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agenthands/linkbench/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "linkbench",
		Short: "Entity-linking experiment toolkit",
		Long: `linkbench compares the failure logs of entity-linking experiments and runs
pretrained entity linkers over tab-separated datasets.

Experiment logs live at <root>/<experiment>/<dataset>.debug, one
tab-separated record per line with the example id first.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			if a.logger != nil {
				return nil
			}
			zcfg := zap.NewProductionConfig()
			if a.verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			a.logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the TOML config (default "+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newCompareCommand(a),
		newLinkCommand(a),
		newPreloadCommand(a),
		newEvaluateCommand(a),
		newServeCommand(a),
	)
	return rootCmd
}

func main() {
	// A missing .env is normal; the environment and config file still apply.
	_ = godotenv.Load()

	// Writes to a closed stdout then fail with EPIPE instead of killing the
	// process, so `compare | head` exits cleanly.
	signal.Ignore(syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(&app{}).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
