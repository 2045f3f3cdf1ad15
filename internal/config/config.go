package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// Config holds the configuration for the Vibe Gallery server and its dependencies.
type Config struct {
	// Listen is the address the Vibe Gallery server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// ServerURL is the base URL of the Vibe Gallery server.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`
	// SessionKey is the key used to encrypt session data.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// AdminEmail is the email address of the gallery admin. Submissions by this
	// account are attributed to the curator profile and auto-featured.
	AdminEmail string `yaml:"admin_email" mapstructure:"admin_email"`
	// CuratorUsername is the username of the ghost curator account that owns
	// admin-submitted projects until their real authors claim them.
	CuratorUsername string `yaml:"curator_username" mapstructure:"curator_username"`
	// Auth holds the authentication configuration.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Cache holds the cache engine configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Gravatar holds the configuration for Gravatar fallback avatars.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
	// Scraper holds the configuration for the Open Graph scraper.
	Scraper *ScraperConfig `yaml:"scraper" mapstructure:"scraper"`
}

// AuthConfig holds the authentication configuration.
type AuthConfig struct {
	// OIDC holds the OpenID Connect configuration.
	OIDC *OIDCConfig `yaml:"oidc" mapstructure:"oidc"`
}

// OIDCConfig holds the OpenID Connect configuration.
type OIDCConfig struct {
	// Enabled indicates whether OIDC authentication is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Name is the display name for the OIDC provider.
	Name string `yaml:"name" mapstructure:"name"`
	// Issuer is the OIDC issuer URL.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// ClientID is the OIDC client ID.
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	// ClientSecret is the OIDC client secret.
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	// RedirectURL is the redirect URL for the oidc flow.
	RedirectURL string `yaml:"redirect_url" mapstructure:"redirect_url"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// CacheConfig holds the configuration for the page cache.
type CacheConfig struct {
	// Type is the type of cache engine to use (e.g., "memory", "redis").
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the URL for the Redis cache if using Redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
}

// GravatarConfig holds the configuration for Gravatar fallback avatars.
type GravatarConfig struct {
	// Enabled indicates whether Gravatar support is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the default image to use when no Gravatar is found.
	// Valid values: "404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating for Gravatar images.
	// Valid values: "g", "pg", "r", "x"
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the size of the Gravatar image in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// ScraperConfig holds the configuration for the Open Graph scraper.
type ScraperConfig struct {
	// UserAgent is the User-Agent header the scraper sends.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// TimeoutSeconds is the HTTP timeout for a single scrape.
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
func Load(path string) (*Config, error) {
	v := viper.New()

	// bind some weirdly unsupported nested env vars
	bindNestedEnv(v)

	// Set default values
	setDefaults(v)

	// Configure Viper
	v.SetConfigType("yaml")
	v.SetEnvPrefix("VIBEGALLERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		// Use specific config file
		v.SetConfigFile(path)
	} else {
		// Search for config in common locations
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vibegallery")
		v.AddConfigPath("/etc/vibegallery")
	}

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Some environment variables can be set with the VIBEGALLERY_ prefix to override config file values")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Sanitize config values
	sanitizeConfig(&c)

	// Validate required configs
	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:3000")
	v.SetDefault("server_url", "http://localhost:3000")
	v.SetDefault("session_max_age", 172800) // 48 hours
	v.SetDefault("session_key", "")
	v.SetDefault("admin_email", "")
	v.SetDefault("curator_username", "vibegallery")

	// Auth defaults
	v.SetDefault("auth.oidc.enabled", false)
	v.SetDefault("auth.oidc.name", "OIDC")
	v.SetDefault("auth.oidc.issuer", "")
	v.SetDefault("auth.oidc.client_id", "")
	v.SetDefault("auth.oidc.client_secret", "")
	v.SetDefault("auth.oidc.redirect_url", "")

	// Database defaults
	v.SetDefault("database.path", "./data/vibegallery.db")

	// Cache defaults
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")

	// Gravatar defaults
	v.SetDefault("gravatar.enabled", true)
	v.SetDefault("gravatar.default_image", "identicon")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 160)

	// Scraper defaults
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (compatible; VibeGalleryBot/1.0; +https://vibegallery.app)")
	v.SetDefault("scraper.timeout_seconds", 10)
}

func bindNestedEnv(v *viper.Viper) {
	// OIDC
	v.MustBindEnv("auth.oidc.enabled", "VIBEGALLERY_AUTH_OIDC_ENABLED")
	v.MustBindEnv("auth.oidc.issuer", "VIBEGALLERY_AUTH_OIDC_ISSUER")
	v.MustBindEnv("auth.oidc.client_id", "VIBEGALLERY_AUTH_OIDC_CLIENT_ID")
	v.MustBindEnv("auth.oidc.client_secret", "VIBEGALLERY_AUTH_OIDC_CLIENT_SECRET")
	v.MustBindEnv("auth.oidc.redirect_url", "VIBEGALLERY_AUTH_OIDC_REDIRECT_URL")

	// Database
	v.MustBindEnv("database.path", "VIBEGALLERY_DATABASE_PATH")

	// Cache
	v.MustBindEnv("cache.type", "VIBEGALLERY_CACHE_TYPE")
	v.MustBindEnv("cache.redis_url", "VIBEGALLERY_CACHE_REDIS_URL")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing vibegallery config")
	}

	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}

	if c.CuratorUsername == "" {
		return fmt.Errorf("curator username is required")
	}

	if c.Auth == nil {
		return fmt.Errorf("missing auth config")
	}

	if c.Auth.OIDC != nil && c.Auth.OIDC.Enabled {
		if c.Auth.OIDC.Issuer == "" {
			return fmt.Errorf("OIDC issuer is required when OIDC is enabled")
		}
		if c.Auth.OIDC.ClientID == "" {
			return fmt.Errorf("OIDC client ID is required when OIDC is enabled")
		}
		if c.Auth.OIDC.ClientSecret == "" {
			return fmt.Errorf("OIDC client secret is required when OIDC is enabled")
		}
		if c.Auth.OIDC.RedirectURL == "" {
			return fmt.Errorf("OIDC redirect URL is required when OIDC is enabled")
		}
	}

	if c.Cache != nil && c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
		return fmt.Errorf("redis url is required when cache type is redis")
	}

	if c.Scraper != nil && c.Scraper.TimeoutSeconds <= 0 {
		return fmt.Errorf("scraper timeout must be greater than 0")
	}

	return nil
}

func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = urlSanitize(c.Listen)

	if c.ServerURL != "" {
		c.ServerURL = urlSanitize(c.ServerURL)
	}

	c.AdminEmail = strings.ToLower(strings.TrimSpace(c.AdminEmail))
	c.CuratorUsername = strings.TrimSpace(c.CuratorUsername)
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}
