// Package config loads runtime configuration from the environment and
// optional dot-env files.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults matching the dashboard deployment.
const (
	DefaultWindowDays   = 30
	DefaultTrackMapPath = "track_map.yaml"
	DefaultSnapshotPath = "public/stats.json"
)

// Config carries the settings shared by the CLI commands. Flags override
// these values where a command defines them.
type Config struct {
	Org          string
	Token        string
	WindowDays   int
	MinCommits   int
	TrackMapPath string
}

// FromEnv loads a Config from the process environment, after loading a
// .env file when one is present. A missing .env file is fine; the existing
// environment is used as is.
func FromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{
		Org:          os.Getenv("ORG"),
		Token:        token(),
		WindowDays:   DefaultWindowDays,
		TrackMapPath: DefaultTrackMapPath,
	}
	if v := os.Getenv("WINDOW_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.WindowDays = days
		}
	}
	if v := os.Getenv("MIN_COMMITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MinCommits = n
		}
	}
	if v := os.Getenv("TRACK_MAP"); v != "" {
		cfg.TrackMapPath = v
	}
	return cfg
}

// token prefers GH_TOKEN over GITHUB_TOKEN.
func token() string {
	if t := os.Getenv("GH_TOKEN"); t != "" {
		return t
	}
	return os.Getenv("GITHUB_TOKEN")
}
