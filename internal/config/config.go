package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	StoreDriver string `yaml:"store_driver"` // sqlite|postgres|redis|mem
	DBDSN       string `yaml:"db_dsn"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	SnapshotDir     string `yaml:"snapshot_dir"`
	SnapshotArchive bool   `yaml:"snapshot_archive"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // json|pretty

	CORSOrigins []string `yaml:"cors_origins"`
}

// Load builds the configuration from an optional YAML file (CONFIG_FILE)
// overlaid with environment variables; env always wins.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		HTTPAddr:        ":8080",
		StoreDriver:     "sqlite",
		SnapshotDir:     "./data/snapshots",
		SnapshotArchive: true,
		LogLevel:        "info",
		LogFormat:       "json",
		CORSOrigins:     []string{"*"},
	}
}

func applyEnv(cfg *Config) {
	cfg.HTTPAddr = envOr("HTTP_ADDR", cfg.HTTPAddr)
	cfg.StoreDriver = envOr("STORE_DRIVER", cfg.StoreDriver)
	cfg.DBDSN = envOr("DB_DSN", cfg.DBDSN)
	cfg.RedisAddr = envOr("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envOr("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = envInt("REDIS_DB", cfg.RedisDB)
	cfg.SnapshotDir = envOr("SNAPSHOT_DIR", cfg.SnapshotDir)
	cfg.SnapshotArchive = envBool("SNAPSHOT_ARCHIVE", cfg.SnapshotArchive)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("LOG_FORMAT", cfg.LogFormat)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
