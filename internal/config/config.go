package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Database        DatabaseConfig   `json:"database"`
	Port            int              `json:"port"`
	JWTSecret       string           `json:"jwt_secret"`
	JWTTTLHours     int              `json:"jwt_ttl_hours"`
	LogConfig       logger.LogConfig `json:"log_config"`
	FileStore       FileStoreConfig  `json:"file_store"`
	LockTTLSeconds  int              `json:"lock_ttl_seconds"`
	LockSweepCron   string           `json:"lock_sweep_cron"`
	Retention       RetentionConfig  `json:"retention"`
	ReleaseCache    CacheConfig      `json:"release_cache"`
	HistoryPageSize int              `json:"history_page_size"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// FileStoreConfig selects a registered file store backend; Data is the
// backend-specific block decoded by its factory.
type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// RetentionConfig drives the scheduled purge of intermediate versions. Only
// contents whose history grew past MaxVersions are touched.
type RetentionConfig struct {
	Enabled     bool   `json:"enabled"`
	Cron        string `json:"cron"`
	MaxVersions int    `json:"max_versions"`
}

type CacheConfig struct {
	Size       int `json:"size"`
	TTLSeconds int `json:"ttl_seconds"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" {
		if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.DBName == "" {
			return nil, fmt.Errorf("database.dsn or database host/user/dbname is required")
		}
		if cfg.Database.Port == 0 {
			cfg.Database.Port = 5432
		}
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.LockTTLSeconds == 0 {
		cfg.LockTTLSeconds = 300
	}
	if cfg.LockSweepCron == "" {
		cfg.LockSweepCron = "*/5 * * * *"
	}
	if cfg.Retention.Cron == "" {
		cfg.Retention.Cron = "0 3 * * *"
	}
	if cfg.Retention.MaxVersions == 0 {
		cfg.Retention.MaxVersions = 50
	}
	if cfg.ReleaseCache.Size == 0 {
		cfg.ReleaseCache.Size = 128
	}
	if cfg.ReleaseCache.TTLSeconds == 0 {
		cfg.ReleaseCache.TTLSeconds = 60
	}
	if cfg.HistoryPageSize == 0 {
		cfg.HistoryPageSize = 50
	}
	return &cfg, nil
}
