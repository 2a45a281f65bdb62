package pubhouse

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eringen/pubhouse/blog"
)

// SiteConfig holds all configuration for a pubhouse site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Pubhouse")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Publisher name for JSON-LD

	Addr         string `mapstructure:"addr"`          // Listen address (default ":3000")
	DatabasePath string `mapstructure:"database_path"` // SQLite path (default "data/pubhouse.db")
	MediaDir     string `mapstructure:"media_dir"`     // Uploaded images (default "data/media")
	StaticDir    string `mapstructure:"static_dir"`    // Static assets (default "public")

	SessionSecret string `mapstructure:"session_secret"` // Required: session signing secret
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	PostCacheTTL time.Duration `mapstructure:"post_cache_ttl"` // Listing cache TTL (default 5m)
	RedisURL     string        `mapstructure:"redis_url"`      // Optional shared listing cache

	LogLevel  string `mapstructure:"log_level"`  // debug, info, warn, error (default info)
	LogFormat string `mapstructure:"log_format"` // json or text (default text)
}

var configDefaults = map[string]any{
	"name":           "Pubhouse",
	"url":            "http://localhost:3000",
	"description":    "",
	"author":         "",
	"addr":           ":3000",
	"database_path":  "data/pubhouse.db",
	"media_dir":      "data/media",
	"static_dir":     "public",
	"session_secret": "",
	"cookie_secure":  false,
	"post_cache_ttl": 5 * time.Minute,
	"redis_url":      "",
	"log_level":      "info",
	"log_format":     "text",
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Pubhouse"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pubhouse.db"
	}
	if c.MediaDir == "" {
		c.MediaDir = "data/media"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// LoadConfig reads configuration from an optional YAML file and from
// PUBHOUSE_* environment variables, which take precedence. When path is
// empty, pubhouse.yml in the working directory is used if it exists.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()
	for key, val := range configDefaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix("PUBHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return SiteConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pubhouse")
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return SiteConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs during Init, after the built-in routes.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithLogger replaces the logger built from the config.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithMediaStore replaces the disk media store.
func WithMediaStore(m blog.MediaStore) Option {
	return func(a *App) {
		a.media = m
	}
}
