package config

import "time"

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// ValidationCacheConfig controls the optional cache of positive session validations.
//
// It is off by default: without it every protected navigation calls the
// user-info endpoint, including the double call on a full page load.
type ValidationCacheConfig struct {
	Enabled bool          `env:"VALIDATION_CACHE_ENABLED" envDefault:"false"`
	TTL     time.Duration `env:"VALIDATION_CACHE_TTL"     envDefault:"30s"`
	Prefix  string        `env:"VALIDATION_CACHE_PREFIX"  envDefault:"uploader:auth-validation:"`
}

// Sanitize keeps the TTL within a window that cannot outlive a revoked session by much.
func (c *ValidationCacheConfig) Sanitize() {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	if c.TTL > 5*time.Minute {
		c.TTL = 5 * time.Minute
	}
	if c.Prefix == "" {
		c.Prefix = "uploader:auth-validation:"
	}
}
