package app

import (
	"log/slog"
	"os"
)

// NewLogger returns a configured slog.Logger based on configuration.
func NewLogger(cfg *Config) *slog.Logger {
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true, Level: level(cfg)}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true, Level: level(cfg)}))
}

// level keeps debug output for development only.
func level(cfg *Config) slog.Level {
	if cfg != nil && cfg.AppEnv == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
