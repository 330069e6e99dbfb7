// Package config loads service settings from defaults, an optional
// configs/config.yaml, an optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service settings
type Config struct {
	Port     int    `mapstructure:"port"`
	ModelDir string `mapstructure:"model_dir"`
	LogLevel string `mapstructure:"log_level"`
	GinMode  string `mapstructure:"gin_mode"`

	FetchTimeout      time.Duration `mapstructure:"fetch_timeout"`
	FetchMaxBodyBytes int64         `mapstructure:"fetch_max_body_bytes"`
	FetchUserAgent    string        `mapstructure:"fetch_user_agent"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	CacheMaxEntries int           `mapstructure:"cache_max_entries"`

	RateLimitPerMin int    `mapstructure:"rate_limit_per_min"`
	RedisAddr       string `mapstructure:"redis_addr"`
	RedisPassword   string `mapstructure:"redis_password"`
	RedisDB         int    `mapstructure:"redis_db"`

	MaxRequestBodyBytes int64         `mapstructure:"max_request_body_bytes"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout     time.Duration `mapstructure:"shutdown_timeout"`
	EnableHSTS          bool          `mapstructure:"enable_hsts"`

	BreakerFailureThreshold int           `mapstructure:"breaker_failure_threshold"`
	BreakerRecoveryTimeout  time.Duration `mapstructure:"breaker_recovery_timeout"`
}

var defaults = map[string]interface{}{
	"port":                      5000,
	"model_dir":                 "./models",
	"log_level":                 "info",
	"gin_mode":                  "release",
	"fetch_timeout":             "10s",
	"fetch_max_body_bytes":      5 << 20,
	"fetch_user_agent":          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"cors_allowed_origins":      []string{"*"},
	"cache_ttl":                 "15m",
	"cache_max_entries":         1000,
	"rate_limit_per_min":        60,
	"redis_addr":                "",
	"redis_password":            "",
	"redis_db":                  0,
	"max_request_body_bytes":    1 << 20,
	"request_timeout":           "30s",
	"shutdown_timeout":          "30s",
	"enable_hsts":               false,
	"breaker_failure_threshold": 5,
	"breaker_recovery_timeout":  "30s",
}

// Load reads configuration from ./configs or the working directory
func Load() (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}
	return load(viper.New(), "./configs", ".")
}

func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}

func load(v *viper.Viper, configPaths ...string) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Port > 0 && c.Port <= 65535, "port %d out of range", c.Port)
	check(c.ModelDir != "", "model_dir is required")

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("unknown gin_mode %q", c.GinMode))
	}

	check(c.FetchTimeout > 0, "fetch_timeout must be positive")
	check(c.FetchMaxBodyBytes > 0, "fetch_max_body_bytes must be positive")
	check(len(c.CORSAllowedOrigins) > 0, "cors_allowed_origins must not be empty")
	check(c.CacheTTL >= 0, "cache_ttl must not be negative")
	check(c.CacheTTL == 0 || c.CacheMaxEntries > 0, "cache_max_entries must be positive when caching is enabled")
	check(c.RateLimitPerMin >= 0, "rate_limit_per_min must not be negative")
	check(c.RedisDB >= 0, "redis_db must not be negative")
	check(c.MaxRequestBodyBytes > 0, "max_request_body_bytes must be positive")
	check(c.RequestTimeout >= 0, "request_timeout must not be negative")
	check(c.ShutdownTimeout > 0, "shutdown_timeout must be positive")
	check(c.BreakerFailureThreshold > 0, "breaker_failure_threshold must be positive")
	check(c.BreakerRecoveryTimeout > 0, "breaker_recovery_timeout must be positive")

	return errors.Join(errs...)
}

// Address is the listen address for the HTTP server
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
