// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Site      SiteConfig      `mapstructure:"site"`
	WordPress WordPressConfig `mapstructure:"wordpress"`
	Content   ContentConfig   `mapstructure:"content"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Session   SessionConfig   `mapstructure:"session"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name       string `mapstructure:"name"`
	Env        string `mapstructure:"env"` // development, staging, production
	Port       int    `mapstructure:"port"`
	Debug      bool   `mapstructure:"debug"`
	AdminToken string `mapstructure:"admin_token"` // empty disables the admin API
}

// SiteConfig holds settings of the rendered site.
type SiteConfig struct {
	Origin         string  `mapstructure:"origin"` // base of canonical and og:url
	DefaultLang    string  `mapstructure:"default_lang"`
	ViewportHeight float64 `mapstructure:"viewport_height"`
	LogoURL        string  `mapstructure:"logo_url"`
}

// WordPressConfig holds the CMS client settings.
type WordPressConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	PerPage   int           `mapstructure:"per_page"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Retry     RetryConfig   `mapstructure:"retry"`
	CB        CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// ContentConfig holds post body fetching settings.
type ContentConfig struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// SyncConfig holds background deck refresh settings.
type SyncConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	OnStartup bool          `mapstructure:"on_startup"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Languages []string      `mapstructure:"languages"`
}

// SessionConfig holds viewer session settings.
type SessionConfig struct {
	Max        int           `mapstructure:"max"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Release     string  `mapstructure:"release"`
}

// RedisConfig holds Redis connection settings for caching and distributed locking.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port of the Redis server.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SlidesTTL  time.Duration `mapstructure:"slides_ttl"`
	ContentTTL time.Duration `mapstructure:"content_ttl"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	var errs []error

	if _, err := url.ParseRequestURI(c.WordPress.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("wordpress.base_url: %w", err))
	}
	if c.WordPress.PerPage < 1 || c.WordPress.PerPage > 100 {
		errs = append(errs, fmt.Errorf("wordpress.per_page must be between 1 and 100, got %d", c.WordPress.PerPage))
	}
	if c.Site.ViewportHeight <= 0 {
		errs = append(errs, errors.New("site.viewport_height must be positive"))
	}
	if c.Content.FetchTimeout <= 0 {
		errs = append(errs, errors.New("content.fetch_timeout must be positive"))
	}
	if c.Session.Max < 1 {
		errs = append(errs, errors.New("session.max must be positive"))
	}
	if c.Sync.Enabled && c.Sync.Interval <= 0 {
		errs = append(errs, errors.New("sync.interval must be positive when sync is enabled"))
	}
	for _, l := range c.Sync.Languages {
		if l != "en" && l != "es" {
			errs = append(errs, fmt.Errorf("sync.languages: unsupported language %q", l))
		}
	}

	return errors.Join(errs...)
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "camp-slides")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)
	v.SetDefault("app.admin_token", "")

	// Site defaults
	v.SetDefault("site.origin", "https://camp.mx")
	v.SetDefault("site.default_lang", "en")
	v.SetDefault("site.viewport_height", 1000)
	v.SetDefault("site.logo_url", "https://camp.mx/wp-content/uploads/2023/12/logo.png")

	// WordPress defaults
	v.SetDefault("wordpress.base_url", "https://camp.mx")
	v.SetDefault("wordpress.per_page", 30)
	v.SetDefault("wordpress.timeout", "10s")
	v.SetDefault("wordpress.user_agent", "Mozilla/5.0 (compatible; camp-slides/1.0)")
	v.SetDefault("wordpress.retry.max_attempts", 2)
	v.SetDefault("wordpress.retry.wait_time", "500ms")
	v.SetDefault("wordpress.retry.max_wait_time", "3s")
	v.SetDefault("wordpress.circuit_breaker.max_requests", 3)
	v.SetDefault("wordpress.circuit_breaker.interval", "60s")
	v.SetDefault("wordpress.circuit_breaker.timeout", "30s")
	v.SetDefault("wordpress.circuit_breaker.failure_ratio", 0.5)

	// Content defaults
	v.SetDefault("content.fetch_timeout", "30s")

	// Sync defaults
	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.interval", "60s")
	v.SetDefault("sync.on_startup", true)
	v.SetDefault("sync.timeout", "30s")
	v.SetDefault("sync.languages", []string{"en", "es"})

	// Session defaults
	v.SetDefault("session.max", 10000)
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.cookie_name", "camp_session")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("sentry.release", "")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.slides_ttl", "60s")
	v.SetDefault("cache.content_ttl", "10m")
	v.SetDefault("cache.key_prefix", "camp-slides")
}

// LanguageTags returns the configured refresh languages, defaulting to both.
func (c *SyncConfig) LanguageTags() []string {
	if len(c.Languages) == 0 {
		return []string{"en", "es"}
	}
	return c.Languages
}
