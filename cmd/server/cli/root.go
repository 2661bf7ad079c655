package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomrelay/internal/app"
	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/log"
)

type rootOptions struct {
	configPath string
	overrides  config.Config
}

// NewRootCommand builds the roomrelay command tree. The root command runs the server.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "roomrelay",
		Short:         "Anonymous room-based chat relay over WebSocket",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "path to config file (default ./config.yaml)")
	flags.StringVar(&opts.overrides.Addr, "addr", "", "HTTP listen address")
	flags.StringVar(&opts.overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.overrides.LogFormat, "log-format", "", "log format: console or json")
	flags.DurationVar(&opts.overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	flags.BoolVar(&opts.overrides.EnableRequestLogging, "request-logging", false, "log every HTTP request and connection")
	flags.StringSliceVar(&opts.overrides.AllowedOrigins, "allowed-origins", nil, "origins allowed to open WebSocket connections (* for any)")

	cmd.AddCommand(newStatsCommand())
	return cmd
}

func runServer(ctx context.Context, opts *rootOptions) error {
	bootLogger := log.New(log.Options{Level: opts.overrides.LogLevel, Format: opts.overrides.LogFormat})

	cfg, cfgPath, err := config.Load(bootLogger, opts.configPath)
	if err != nil {
		bootLogger.Error().Err(err).Msg("failed to load config")
		return err
	}
	cfg.UpdateFrom(opts.overrides)
	if err := cfg.Validate(); err != nil {
		bootLogger.Error().Err(err).Msg("invalid config")
		return err
	}

	logger := log.New(log.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info().
		Str("config", cfgPath).
		Str("addr", cfg.Addr).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("starting roomrelay server")

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(&cfg, logger).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return fmt.Errorf("run server: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
