package config

import "time"

// Config holds all configuration for the application. An empty ProjectID
// keeps events in-process. DryRun suppresses Slack posts triggered by events.
type Config struct {
	DBName    string
	Port      string
	Storage   StorageConfig
	Slack     SlackConfig
	Turso     TursoConfig
	Redis     RedisConfig
	ProjectID string
	Reconcile ReconcileConfig
	Digest    DigestConfig
	DryRun    bool
}

// StorageBackend selects the persistence gateway implementation.
type StorageBackend string

const (
	StorageSQLite StorageBackend = "sqlite"
	StorageRedis  StorageBackend = "redis"
)

type StorageConfig struct {
	Backend StorageBackend
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// Enabled reports whether outbound Slack notifications can be posted.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type RedisConfig struct {
	URL string
}

type ReconcileConfig struct {
	// Interval between scheduled audits. Zero disables the schedule.
	Interval time.Duration
	Repair   bool
}

type DigestConfig struct {
	// Cron is a five-field crontab for posting standings to Slack. Empty disables it.
	Cron string
}
