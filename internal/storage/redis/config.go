package redis

// Config holds Redis connection settings.
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	PoolSize     int
	MinIdleConns int

	// MaxTxRetries bounds optimistic transaction retries when a watched key
	// changes underneath a write.
	MaxTxRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration.
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		MaxTxRetries: 5,
	}
}
