package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg, err := fromEnv(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	cfg.DBName = getEnv("DB_NAME")
	cfg.Port = getEnv("PORT")
	return cfg
}

// fromEnv reads every optional setting through lookup, applying defaults.
func fromEnv(lookup func(string) (string, bool)) (Config, error) {
	getOptional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName: getOptional("DB_NAME", ""),
		Port:   getOptional("PORT", ""),
		Storage: StorageConfig{
			Backend: StorageBackend(strings.ToLower(getOptional("STORAGE_BACKEND", string(StorageSQLite)))),
		},
		Slack: SlackConfig{
			Token:         getOptional("SLACK_BOT_TOKEN", ""),
			ChannelID:     getOptional("SLACK_CHANNEL_ID", ""),
			SigningSecret: getOptional("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getOptional("TURSO_PRIMARY_URL", ""),
			AuthToken:  getOptional("TURSO_AUTH_TOKEN", ""),
		},
		Redis: RedisConfig{
			URL: getOptional("REDIS_URL", "redis://localhost:6379/0"),
		},
		ProjectID: getOptional("GCP_PROJECT", ""),
		Digest: DigestConfig{
			Cron: getOptional("STANDINGS_DIGEST_CRON", ""),
		},
	}

	switch cfg.Storage.Backend {
	case StorageSQLite, StorageRedis:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_BACKEND %q: want sqlite or redis", cfg.Storage.Backend)
	}

	interval, err := time.ParseDuration(getOptional("RECONCILE_INTERVAL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RECONCILE_INTERVAL: %w", err)
	}
	cfg.Reconcile.Interval = interval

	for key, dst := range map[string]*bool{"RECONCILE_REPAIR": &cfg.Reconcile.Repair, "DRY_RUN": &cfg.DryRun} {
		raw := getOptional(key, "false")
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", key, raw, err)
		}
		*dst = v
	}
	return cfg, nil
}
