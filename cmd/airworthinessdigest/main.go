package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"AirworthinessDigest/internal/app"
	"AirworthinessDigest/internal/config"
	"AirworthinessDigest/internal/logging"
)

var Version = "dev"

// runFunc executes one digest cycle with fully resolved settings.
type runFunc func(ctx context.Context, cfg config.Config, logger *slog.Logger, opts app.Options) error

func runApplication(ctx context.Context, cfg config.Config, logger *slog.Logger, opts app.Options) error {
	return app.New(cfg, logger, opts).Run(ctx)
}

func main() {
	if err := rootCmd(runApplication).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd(run runFunc) *cobra.Command {
	var (
		dryRun     bool
		verbose    bool
		force      bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:           "airworthinessdigest",
		Short:         "Mail a daily digest of new BD-700 airworthiness and safety reports",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg := config.Load(configPath)
			level := cfg.Logging.Level
			if verbose {
				level = "debug"
			}

			logger, closeLog, err := logging.NewWithFile(level, cfg.Logging.File)
			if err != nil {
				logger.Warn("logging to stdout only", "error", err)
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := app.Options{
				DryRun: dryRun,
				Force:  force,
				Out:    cmd.OutOrStdout(),
			}
			if err := run(ctx, cfg, logger, opts); err != nil {
				logger.Error("run failed", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate the digest and print a preview without sending mail or updating history")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&force, "force", false, "Run even on configured skip days")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (overrides DIGEST_CONFIG)")

	return cmd
}
