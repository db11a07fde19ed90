package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/raritywatch/internal/config"
	"github.com/rickgao/raritywatch/internal/journal"
	"github.com/rickgao/raritywatch/internal/model"
	"github.com/rickgao/raritywatch/internal/notify"
	"github.com/rickgao/raritywatch/internal/opensea"
	"github.com/rickgao/raritywatch/internal/pipeline"
	"github.com/rickgao/raritywatch/internal/ratelimit"
	"github.com/rickgao/raritywatch/internal/stream"
	"github.com/rickgao/raritywatch/internal/version"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stream listings and send rare-trait alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}

			cfg, err := config.LoadAndValidate(configPath)
			if err != nil {
				return err
			}
			if debug {
				cfg.Debug = true
			}

			logger := newLogger(os.Stdout, cfg.Debug)
			slog.SetDefault(logger)

			logger.Info("starting raritywatch",
				"version", version.Version,
				"commit", version.Commit,
				"config", configPath,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "configs/raritywatch.yaml", "path to config file")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file read before the config")
	cmd.Flags().BoolVar(&debug, "debug", false, "log at debug level")

	return cmd
}

// run wires every component and blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	rare := model.NewRareTraitSet(cfg.Collection.RareTraits...)

	logger.Info("configuration loaded",
		"collection", cfg.Collection.Slug,
		"contract", cfg.Collection.Contract,
		"chain", cfg.Collection.Chain,
		"rare_traits", rare.String(),
		"journal", cfg.Database.Enabled(),
	)

	apiLimiter := ratelimit.New(cfg.Limits.APIPerMinute, cfg.Limits.Window)
	notifyLimiter := ratelimit.New(cfg.Limits.NotificationsPerMinute, cfg.Limits.Window)

	client := opensea.NewClient(
		cfg.OpenSea.APIURL,
		cfg.OpenSea.APIKey,
		apiLimiter,
		opensea.WithTimeout(cfg.OpenSea.Timeout),
		opensea.WithLogger(logger),
	)

	session := stream.NewSession(stream.Config{
		URL:                cfg.OpenSea.StreamURL,
		APIKey:             cfg.OpenSea.StreamAPIKey,
		Collection:         cfg.Collection.Slug,
		HeartbeatInterval:  cfg.Stream.HeartbeatInterval,
		WriteTimeout:       cfg.Stream.WriteTimeout,
		HandshakeTimeout:   cfg.Stream.HandshakeTimeout,
		InsecureSkipVerify: cfg.Stream.InsecureSkipVerify,
		TolerateMalformed:  cfg.Stream.TolerateMalformed,
	}, logger)

	bot, err := notify.NewBot(notify.BotConfig{
		APIURL:      cfg.Telegram.APIURL,
		Token:       cfg.Telegram.BotToken,
		PollTimeout: cfg.Telegram.PollTimeout,
	}, logger)
	if err != nil {
		return err
	}
	sink := notify.NewSink(bot, cfg.Telegram.ChatID, notifyLimiter)

	deps := pipeline.Deps{
		Stream:   session,
		Metadata: client,
		Notifier: sink,
	}

	if cfg.Database.Enabled() {
		logger.Info("connecting to journal database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		j, err := journal.Open(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		deps.Journal = j
	}

	p := pipeline.New(pipeline.Config{
		Collection:     cfg.Collection.Slug,
		Chain:          cfg.Collection.Chain,
		Contract:       cfg.Collection.Contract,
		RareTraits:     rare,
		ReconnectDelay: cfg.Stream.ReconnectDelay,
	}, deps, logger)

	if cfg.Telegram.CommandsEnabled() {
		commands := notify.NewCommands(
			bot,
			func() string { return notify.FormatStartReply(rare) },
			func() string {
				lines := statusLines(session.Stats(), p.Stats(), apiLimiter.Stats(), notifyLimiter.Stats())
				return notify.FormatStatusReply(cfg.Collection.Slug, rare, lines...)
			},
			logger,
		)
		if err := commands.Start(ctx); err != nil {
			return fmt.Errorf("start command poller: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			commands.Stop(shutdownCtx)
		}()
	}

	if err := sink.Send(ctx, notify.FormatStartup(cfg.Collection.Slug, rare)); err != nil {
		logger.Warn("failed to send startup message", "error", err)
	}

	err = p.Run(ctx)

	st := p.Stats()
	logger.Info("raritywatch stopped",
		"sessions", st.Sessions,
		"listings", st.Listings,
		"matches", st.Matches,
		"notified", st.Notified,
		"failed", st.Failed,
	)
	return err
}

// statusLines renders live counters for the /status reply.
func statusLines(ss stream.Stats, ps pipeline.Stats, api, alerts ratelimit.Stats) []string {
	lines := []string{
		fmt.Sprintf("Stream: %s (%d sessions)", ss.State, ps.Sessions),
		fmt.Sprintf("Listings: %d seen, %d rare", ps.Listings, ps.Matches),
		fmt.Sprintf("Alerts: %d sent, %d failed", ps.Notified, ps.Failed),
		fmt.Sprintf("API limiter: %d/%d per %s", api.InWindow, api.Max, api.Window),
		fmt.Sprintf("Alert limiter: %d/%d per %s", alerts.InWindow, alerts.Max, alerts.Window),
	}
	if ss.LastError != "" {
		lines = append(lines, "Last stream error: "+ss.LastError)
	}
	return lines
}
