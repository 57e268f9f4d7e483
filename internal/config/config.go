// Package config loads runtime configuration for the colortrack
// binaries by layering defaults, an optional YAML file, and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all runtime settings.
type Config struct {
	// Addr is the listen address of the job API server.
	Addr string `koanf:"addr"`

	// ResultDir receives CSV, summary, and thumbnail artifacts.
	ResultDir string `koanf:"result_dir"`

	// FFmpegPath and FFprobePath override the binaries used by the
	// video frame source; empty values resolve via PATH.
	FFmpegPath  string `koanf:"ffmpeg_path"`
	FFprobePath string `koanf:"ffprobe_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Thumbnails enables writing a thumbnail of the first decodable
	// frame next to the CSV artifact.
	Thumbnails bool `koanf:"thumbnails"`

	// ThumbnailSize bounds the thumbnail's longer side in pixels.
	ThumbnailSize int `koanf:"thumbnail_size"`

	// BlurRadius applies a Gaussian pre-blur to every frame when > 0.
	BlurRadius float64 `koanf:"blur_radius"`
}

// New returns the configuration defaults.
func New() *Config {
	return &Config{
		Addr:          ":8080",
		ResultDir:     "../results",
		LogLevel:      "info",
		Thumbnails:    false,
		ThumbnailSize: 320,
	}
}

// Load builds a Config by layering defaults, an optional YAML file,
// and environment variables.
//
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if COLORTRACK_CONFIG is set
//  3. env (prefix COLORTRACK_, e.g. COLORTRACK_RESULT_DIR)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("COLORTRACK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// Map env keys like COLORTRACK_RESULT_DIR -> result_dir (flat keys,
	// underscores preserved to match the koanf struct tags).
	envProvider := env.Provider("COLORTRACK_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "colortrack_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading env: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.ResultDir == "" {
		return nil, errors.New("result_dir must not be empty")
	}
	if cfg.ThumbnailSize <= 0 {
		return nil, errors.New("thumbnail_size must be positive")
	}
	return &cfg, nil
}

// SlogLevel translates LogLevel into a slog level, defaulting to info
// for unknown values.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
