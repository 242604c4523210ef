package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	EnableOutboxRelay bool
	EnableEventAudit  bool
}

// fileConfig is the optional TOML overlay read from AEGIS_CONFIG.
// Environment variables take precedence over file values.
type fileConfig struct {
	ServiceName        string `toml:"service_name"`
	HTTPPort           string `toml:"http_port"`
	PostgresDSN        string `toml:"postgres_dsn"`
	OutboxPollInterval string `toml:"outbox_poll_interval"`
	OutboxBatchSize    int    `toml:"outbox_batch_size"`
	EnableOutboxRelay  *bool  `toml:"enable_outbox_relay"`
	EnableEventAudit   *bool  `toml:"enable_event_audit"`
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName:        "aegis",
		HTTPPort:           "8080",
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
		EnableOutboxRelay:  true,
		EnableEventAudit:   true,
	}

	if path := strings.TrimSpace(os.Getenv("AEGIS_CONFIG")); path != "" {
		var raw fileConfig
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		if meta.IsDefined("service_name") {
			cfg.ServiceName = strings.TrimSpace(raw.ServiceName)
		}
		if meta.IsDefined("http_port") {
			cfg.HTTPPort = strings.TrimSpace(raw.HTTPPort)
		}
		if meta.IsDefined("postgres_dsn") {
			cfg.PostgresDSN = strings.TrimSpace(raw.PostgresDSN)
		}
		if meta.IsDefined("outbox_poll_interval") {
			interval, err := time.ParseDuration(strings.TrimSpace(raw.OutboxPollInterval))
			if err != nil {
				return Config{}, fmt.Errorf("parse outbox_poll_interval: %w", err)
			}
			cfg.OutboxPollInterval = interval
		}
		if meta.IsDefined("outbox_batch_size") {
			cfg.OutboxBatchSize = raw.OutboxBatchSize
		}
		if raw.EnableOutboxRelay != nil {
			cfg.EnableOutboxRelay = *raw.EnableOutboxRelay
		}
		if raw.EnableEventAudit != nil {
			cfg.EnableEventAudit = *raw.EnableEventAudit
		}
	}

	if service := strings.TrimSpace(os.Getenv("SERVICE_NAME")); service != "" {
		cfg.ServiceName = service
	}
	if port := strings.TrimSpace(os.Getenv("HTTP_PORT")); port != "" {
		cfg.HTTPPort = port
	}
	if dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN")); dsn != "" {
		cfg.PostgresDSN = dsn
	}
	if raw := strings.TrimSpace(os.Getenv("OUTBOX_POLL_INTERVAL")); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse OUTBOX_POLL_INTERVAL: %w", err)
		}
		cfg.OutboxPollInterval = interval
	}
	if raw := strings.TrimSpace(os.Getenv("OUTBOX_BATCH_SIZE")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse OUTBOX_BATCH_SIZE: %w", err)
		}
		cfg.OutboxBatchSize = size
	}
	cfg.EnableOutboxRelay = envBool("ENABLE_OUTBOX_RELAY", cfg.EnableOutboxRelay)
	cfg.EnableEventAudit = envBool("ENABLE_EVENT_AUDIT", cfg.EnableEventAudit)

	return cfg, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
