package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/tally/internal/api"
	"github.com/MikeSquared-Agency/tally/internal/bot"
	"github.com/MikeSquared-Agency/tally/internal/config"
	"github.com/MikeSquared-Agency/tally/internal/directory"
	"github.com/MikeSquared-Agency/tally/internal/hermes"
	"github.com/MikeSquared-Agency/tally/internal/jira"
	"github.com/MikeSquared-Agency/tally/internal/slack"
	"github.com/MikeSquared-Agency/tally/internal/store"
	"github.com/MikeSquared-Agency/tally/internal/worklog"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat bot and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	}
}

func serve(cfg config.Config) error {
	setupLogging(cfg.LogLevel)
	logger := slog.Default()

	logger.Info("tally starting", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Authorization: Postgres when configured, otherwise a static directory file.
	var auth worklog.Authorizer
	switch {
	case cfg.DatabaseURL != "":
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		auth = db
		logger.Info("database connected")
	case cfg.DirectoryPath != "":
		dir, err := directory.Load(cfg.DirectoryPath)
		if err != nil {
			return err
		}
		auth = dir
		logger.Info("directory loaded", "path", cfg.DirectoryPath, "grants", dir.Len())
	default:
		return errors.New("DATABASE_URL or TALLY_DIRECTORY is required")
	}

	loc := cfg.Location()
	clock := func() time.Time { return time.Now().In(loc) }
	pipeline := worklog.New(auth, jira.NewClient(cfg.CallTimeout), logger,
		worklog.WithCallTimeout(cfg.CallTimeout),
		worklog.WithClock(clock),
	)

	// Slack poster (optional: without it outcomes are only logged)
	var replier bot.Replier
	if cfg.SlackBotToken != "" {
		replier = slack.NewPoster(cfg.SlackBotToken, logger)
		logger.Info("slack poster ready")
	} else {
		logger.Warn("slack not configured, replies disabled")
	}

	// NATS/Hermes
	hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, logger)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	defer hermesClient.Close()
	logger.Info("NATS connected", "url", cfg.NatsURL)

	b := bot.New(pipeline, replier, hermesClient, logger)
	if err := hermesClient.QueueSubscribe(hermes.SubjectMessage, "tally", b.HandleMessage); err != nil {
		return err
	}

	srv := api.NewServer(cfg.Port, cfg.APIToken, pipeline, hermesClient, logger, api.WithClock(clock))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hermesClient.Drain(); err != nil {
			logger.Warn("nats drain failed", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	// Announce registration
	if err := hermesClient.Publish(hermes.SubjectRegistered, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
	}); err != nil {
		logger.Warn("failed to publish registration", "error", err)
	}

	logger.Info("tally ready", "port", cfg.Port, "timezone", loc.String())

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("tally stopped")
	return nil
}
