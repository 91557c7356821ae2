package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lineglot/lineglot/internal/bot"
	"github.com/lineglot/lineglot/internal/config"
	"github.com/lineglot/lineglot/internal/line"
	"github.com/lineglot/lineglot/internal/orchestrator"
	"github.com/lineglot/lineglot/internal/server"
	"github.com/lineglot/lineglot/internal/settings"
	"github.com/lineglot/lineglot/internal/translator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)

	store, err := settings.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening settings store: %w", err)
	}
	defer store.Close()

	provider, err := buildProvider(cfg, log)
	if err != nil {
		return err
	}
	log.Info().Str("provider", provider.Name()).Msg("translation provider ready")

	orch := orchestrator.New(provider, log)
	client := line.NewClient(cfg.LineEndpoint, cfg.ChannelToken, log)
	dispatcher := bot.New(store, orch, client, log)
	srv := server.New(cfg.ListenAddr, cfg.ChannelSecret, dispatcher, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func buildProvider(cfg *config.Config, log zerolog.Logger) (translator.Provider, error) {
	var base translator.Provider
	switch cfg.Provider {
	case "groq":
		base = translator.NewGroqService(cfg.GroqAPIKey)
	case "deepseek":
		base = translator.NewDeepSeekService(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL)
	case "google":
		base = translator.NewGoogleService(cfg.GoogleCredentials)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	return translator.WithReliability(base, translator.ReliabilityConfig{
		Timeout:     cfg.RequestTimeout,
		MaxAttempts: cfg.MaxAttempts,
		MinInterval: cfg.MinInterval,
	}, log), nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
