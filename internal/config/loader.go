package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "ACTIVSAFE"

// Load reads configuration from an optional YAML file, overlays environment
// variables with the ACTIVSAFE_ prefix, applies defaults, and validates the
// result.  An empty path skips the file stage, so a fully env-driven
// deployment needs no configuration file at all.
//
// Environment variable names follow the key path with dots replaced by
// underscores: ACTIVSAFE_DATABASE_HOST, ACTIVSAFE_REDIS_ADDR, and so on.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}

	// Keys must be registered with viper for AutomaticEnv to see them when
	// no configuration file supplies them.
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// MustLoad is Load that panics on error.  Use only in main.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// configKeys lists every key path reachable through mapstructure tags.  Kept
// in one place so BindEnv coverage stays aligned with the Config structure.
var configKeys = []string{
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.db_name",
	"database.ssl_mode",
	"database.max_conns",
	"database.min_conns",
	"database.conn_max_lifetime",
	"database.query_timeout",
	"redis.addr",
	"redis.password",
	"redis.db",
	"redis.pool_size",
	"redis.min_idle_conns",
	"redis.dial_timeout",
	"redis.read_timeout",
	"redis.write_timeout",
	"redis.key_prefix",
	"kafka.brokers",
	"kafka.topic",
	"kafka.acks",
	"kafka.max_retries",
	"kafka.batch_timeout",
	"kafka.write_timeout",
	"log.level",
	"log.format",
	"log.output_paths",
	"log.error_output_paths",
	"metrics.namespace",
	"engine.trend_cache_ttl",
	"engine.history_window_days",
	"engine.publish_assessments",
}
