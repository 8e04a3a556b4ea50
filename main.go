package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"capitol/internal/bot"
	"capitol/internal/config"
	"capitol/internal/dashboard"
	"capitol/internal/profiles"
	"capitol/internal/status"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Printf("Could not load configuration: %s\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Log)

	if cfg.Token == "" {
		log.Fatal().Msg("No discord token provided, set CAPITOL_TOKEN")
	}

	// The status store is the single source of truth, everything else
	// gets a reference to it
	store := status.New(status.Options{
		ErrorCap:  cfg.Status.ErrorCap,
		SampleCap: cfg.Status.SampleCap,
	})
	repo := profiles.NewRepository(cfg.Profiles.Path)
	var updater *profiles.Updater
	if cfg.Profiles.URL != "" {
		updater = profiles.NewUpdater(cfg.Profiles.URL, cfg.Profiles.Path, cfg.Profiles.Refresh.Std())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Dashboard
	server := dashboard.NewServer(store, repo, cfg.Dashboard.Addr, cfg.Dashboard.BroadcastInterval.Std())
	go func() {
		if err := server.Run(ctx); err != nil {
			log.Error().Msg(fmt.Sprintf("Dashboard server stopped: %s", err))
			cancel()
		}
	}()

	// Bot
	capitol := bot.New(bot.Config{
		Token:             cfg.Token,
		GuildID:           cfg.GuildID,
		HeartbeatInterval: cfg.Bot.HeartbeatInterval.Std(),
		SampleInterval:    cfg.Bot.SampleInterval.Std(),
		MainCycle:         cfg.Bot.MainCycle.Std(),
		Restart:           cancel,
	}, store, repo, updater)
	if err := capitol.Run(ctx); err != nil {
		log.Fatal().Msg(fmt.Sprintf("Could not run discord bot: %s", err))
	}
	log.Info().Msg("Shutting down")
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
	}
	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))
}
