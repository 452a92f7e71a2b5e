package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration. Values come from defaults, then an
// optional YAML file, then environment variables (highest priority).
type Config struct {
	DBPath           string `yaml:"db_path"`           // TAKEOUT_DB, default "takeout.db"
	UserID           string `yaml:"user_id"`           // TAKEOUT_USER_ID, default "local"
	BatchSize        int    `yaml:"batch_size"`        // TAKEOUT_BATCH_SIZE, default 500
	ProgressInterval int    `yaml:"progress_interval"` // TAKEOUT_PROGRESS_INTERVAL, default 1000
	LikedPlaylist    string `yaml:"liked_playlist"`    // TAKEOUT_LIKED_PLAYLIST, default "Liked videos"
	ClearPlaylists   bool   `yaml:"clear_playlists"`   // TAKEOUT_CLEAR_PLAYLISTS, default false
	LogLevel         string `yaml:"log_level"`         // TAKEOUT_LOG_LEVEL, default "info"
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		DBPath:           "takeout.db",
		UserID:           "local",
		BatchSize:        500,
		ProgressInterval: 1000,
		LikedPlaylist:    "Liked videos",
		LogLevel:         "info",
	}
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honoured when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Defaults()
	applyEnv(&cfg)
	return cfg
}

// LoadFile reads a YAML configuration file and layers environment variables
// on top of it.
func LoadFile(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DBPath = envOr("TAKEOUT_DB", cfg.DBPath)
	cfg.UserID = envOr("TAKEOUT_USER_ID", cfg.UserID)
	cfg.BatchSize = envInt("TAKEOUT_BATCH_SIZE", cfg.BatchSize)
	cfg.ProgressInterval = envInt("TAKEOUT_PROGRESS_INTERVAL", cfg.ProgressInterval)
	cfg.LikedPlaylist = envOr("TAKEOUT_LIKED_PLAYLIST", cfg.LikedPlaylist)
	cfg.ClearPlaylists = envBool("TAKEOUT_CLEAR_PLAYLISTS", cfg.ClearPlaylists)
	cfg.LogLevel = envOr("TAKEOUT_LOG_LEVEL", cfg.LogLevel)
}

// normalize replaces nonsensical file values with defaults.
func (c *Config) normalize() {
	d := Defaults()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = d.ProgressInterval
	}
	if strings.TrimSpace(c.UserID) == "" {
		c.UserID = d.UserID
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}
