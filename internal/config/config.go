// Package config loads studio configuration. Values come from an optional
// YAML file merged with environment variables; environment wins.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	APIKey     string
	BaseURL    string
	APIVersion string

	Addr     string
	LogLevel string
	Debug    bool

	PreferIPv4     bool
	HTTPTimeout    time.Duration
	RequestTimeout time.Duration

	PollInterval    time.Duration
	PollMaxAttempts int

	CanvasSize      int
	MaxAngleWorkers int
	RenderDebounce  time.Duration

	ImageModel  string
	ScriptModel string
	VideoModel  string
	SpeechModel string
	Voice       string

	// SeedPreference picks the video seed image when both a product shot
	// and an on-model shot exist: "product" or "model".
	SeedPreference string

	// ScriptDir is where production scripts are written as YAML so a run
	// can be restored later.
	ScriptDir string
}

// Load reads the optional config file at path (empty means env only),
// applies environment overrides, validates and clamps.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	cfg := Config{
		APIKey:     getEnvOrKoanf("GEMINI_API_KEY", k, "api_key", ""),
		BaseURL:    getEnvOrKoanf("GEMINI_BASE_URL", k, "base_url", "https://generativelanguage.googleapis.com"),
		APIVersion: getEnvOrKoanf("GEMINI_API_VERSION", k, "api_version", "v1beta"),

		Addr:     getEnvOrKoanf("STUDIO_ADDR", k, "addr", ":8080"),
		LogLevel: strings.ToLower(getEnvOrKoanf("LOG_LEVEL", k, "log_level", "info")),
		Debug:    getEnvBoolOrKoanf("DEBUG", k, "debug", false),

		PreferIPv4:     getEnvBoolOrKoanf("PREFER_IPV4", k, "prefer_ipv4", true),
		HTTPTimeout:    time.Duration(getEnvIntOrKoanf("HTTP_TIMEOUT_SECONDS", k, "http_timeout_seconds", 180)) * time.Second,
		RequestTimeout: time.Duration(getEnvIntOrKoanf("REQUEST_TIMEOUT_SECONDS", k, "request_timeout_seconds", 180)) * time.Second,

		PollInterval:    time.Duration(getEnvIntOrKoanf("POLL_INTERVAL_SECONDS", k, "poll_interval_seconds", 5)) * time.Second,
		PollMaxAttempts: getEnvIntOrKoanf("POLL_MAX_ATTEMPTS", k, "poll_max_attempts", 60),

		CanvasSize:      getEnvIntOrKoanf("CANVAS_SIZE", k, "canvas_size", 1024),
		MaxAngleWorkers: getEnvIntOrKoanf("MAX_ANGLE_WORKERS", k, "max_angle_workers", 3),
		RenderDebounce:  time.Duration(getEnvIntOrKoanf("RENDER_DEBOUNCE_MS", k, "render_debounce_ms", 200)) * time.Millisecond,

		ImageModel:  getEnvOrKoanf("IMAGE_MODEL", k, "image_model", "gemini-2.5-flash-image"),
		ScriptModel: getEnvOrKoanf("SCRIPT_MODEL", k, "script_model", "gemini-3-pro-preview"),
		VideoModel:  getEnvOrKoanf("VIDEO_MODEL", k, "video_model", "veo-3.0-generate-001"),
		SpeechModel: getEnvOrKoanf("SPEECH_MODEL", k, "speech_model", "gemini-2.5-flash-preview-tts"),
		Voice:       getEnvOrKoanf("VOICE", k, "voice", "narrator"),

		SeedPreference: strings.ToLower(getEnvOrKoanf("SEED_PREFERENCE", k, "seed_preference", "product")),

		ScriptDir: getEnvOrKoanf("SCRIPT_DIR", k, "script_dir", "productions"),
	}

	if cfg.APIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}
	if cfg.SeedPreference != "product" && cfg.SeedPreference != "model" {
		return Config{}, fmt.Errorf("SEED_PREFERENCE must be \"product\" or \"model\", got %q", cfg.SeedPreference)
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 180 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.PollMaxAttempts < 1 {
		cfg.PollMaxAttempts = 1
	}
	if cfg.CanvasSize < 256 {
		cfg.CanvasSize = 1024
	}
	if cfg.MaxAngleWorkers < 1 {
		cfg.MaxAngleWorkers = 1
	}
	if cfg.RenderDebounce <= 0 {
		cfg.RenderDebounce = 200 * time.Millisecond
	}

	return cfg, nil
}

func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(envKey)); value != "" {
		return value
	}
	if value := strings.TrimSpace(k.String(koanfKey)); value != "" {
		return value
	}
	return fallback
}

func getEnvIntOrKoanf(envKey string, k *koanf.Koanf, koanfKey string, fallback int) int {
	if value := strings.TrimSpace(os.Getenv(envKey)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		return fallback
	}
	if k.Exists(koanfKey) {
		return k.Int(koanfKey)
	}
	return fallback
}

func getEnvBoolOrKoanf(envKey string, k *koanf.Koanf, koanfKey string, fallback bool) bool {
	if value := strings.TrimSpace(os.Getenv(envKey)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		return fallback
	}
	if k.Exists(koanfKey) {
		return k.Bool(koanfKey)
	}
	return fallback
}
