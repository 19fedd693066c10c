package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// FinishedGameTTL caps how long closed games are retained. Ongoing
	// games and player records never expire.
	FinishedGameTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:             "redis://localhost:6379",
		PoolSize:        10,
		MinIdleConns:    2,
		FinishedGameTTL: 7 * 24 * time.Hour,
	}
}
