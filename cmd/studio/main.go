package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"merch-studio-kit/internal/angles"
	"merch-studio-kit/internal/compositor"
	"merch-studio-kit/internal/config"
	"merch-studio-kit/internal/genai"
	"merch-studio-kit/internal/httpclient"
	"merch-studio-kit/internal/pipeline"
	"merch-studio-kit/internal/poll"
	"merch-studio-kit/internal/server"
	"merch-studio-kit/internal/studio"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	client := genai.New(genai.Options{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		APIVersion:  cfg.APIVersion,
		HTTPClient:  httpClient,
		Logger:      logger,
		ImageModel:  cfg.ImageModel,
		TextModel:   cfg.ScriptModel,
		SpeechModel: cfg.SpeechModel,
	})

	producer, err := pipeline.New(pipeline.Options{
		Generator: client,
		Poller: poll.Poller{
			Interval:    cfg.PollInterval,
			MaxAttempts: uint64(cfg.PollMaxAttempts),
		},
		Logger:         logger,
		SeedPreference: pipeline.SeedPreference(cfg.SeedPreference),
	})
	if err != nil {
		logger.Error("pipeline setup error", "err", err)
		os.Exit(1)
	}

	series, err := angles.New(angles.Options{
		Generator:  client,
		MaxWorkers: cfg.MaxAngleWorkers,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("angles setup error", "err", err)
		os.Exit(1)
	}

	srv := server.New(server.Options{
		Logger:            logger,
		Store:             studio.NewStore(),
		Renderer:          compositor.NewRenderer(compositor.RendererOptions{Size: cfg.CanvasSize, Logger: logger}),
		Client:            client,
		Producer:          producer,
		Series:            series,
		RequestTimeout:    cfg.RequestTimeout,
		RenderDebounce:    cfg.RenderDebounce,
		DefaultVoice:      cfg.Voice,
		DefaultVideoModel: cfg.VideoModel,
		ScriptDir:         cfg.ScriptDir,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       90 * time.Second,
	}

	logger.Info("studio started", "addr", cfg.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
