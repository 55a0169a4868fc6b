// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultAppName          = "Theme Gallery"
	defaultPort             = 8080
	defaultDatabaseFilename = "data/gallery.db"
	defaultListPath         = "api/themes.json"
	defaultDetailPath       = "api/themes/{id}.json"
	defaultRequestTimeout   = 10 * time.Second
	defaultRefreshCron      = "*/30 * * * *"
	defaultStorageKey       = "themegallery.appliedTheme"
	defaultReloadCooldown   = 5 * time.Second
	defaultReloadPerHour    = 120
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type GalleryConfig struct {
	// SourceURL is the base the list and detail paths resolve against.
	SourceURL        string        `yaml:"source_url"`
	ListPath         string        `yaml:"list_path"`
	DetailPath       string        `yaml:"detail_path"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	RefreshCron      string        `yaml:"refresh_cron"`
	StorageKey       string        `yaml:"storage_key"`
	ServeDemoCatalog bool          `yaml:"serve_demo_catalog"`
}

type RateLimitConfig struct {
	ReloadCooldown   time.Duration `yaml:"reload_cooldown"`
	ReloadMaxPerHour int           `yaml:"reload_max_per_hour"`
	// TrustProxy reads the client address from X-Forwarded-For.
	TrustProxy bool `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Gallery GalleryConfig `yaml:"gallery"`

	RateLimit RateLimitConfig `yaml:"ratelimit"`
}

// Default returns a configuration that serves and browses the embedded demo
// catalog on localhost.
func Default() *Config {
	var cfg Config
	cfg.App.Name = defaultAppName
	cfg.App.Environment = "development"
	cfg.App.Port = defaultPort
	cfg.App.BaseURL = fmt.Sprintf("http://localhost:%d/", defaultPort)
	cfg.Database = DatabaseConfig{
		Driver:   "sqlite",
		Filename: defaultDatabaseFilename,
	}
	cfg.Gallery = GalleryConfig{
		ListPath:         defaultListPath,
		DetailPath:       defaultDetailPath,
		RequestTimeout:   defaultRequestTimeout,
		RefreshCron:      defaultRefreshCron,
		StorageKey:       defaultStorageKey,
		ServeDemoCatalog: true,
	}
	cfg.RateLimit = RateLimitConfig{
		ReloadCooldown:   defaultReloadCooldown,
		ReloadMaxPerHour: defaultReloadPerHour,
	}
	return &cfg
}

// Load loads both .env and yaml configuration. A missing config file yields the
// defaults; environment overrides are applied last.
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("error reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv("ENVIRONMENT"); ok && value != "" {
		c.App.Environment = value
	}
	if value, ok := os.LookupEnv("PORT"); ok {
		var port int
		if _, err := fmt.Sscanf(value, "%d", &port); err == nil {
			c.App.Port = port
		}
	}
	if value, ok := os.LookupEnv("GALLERY_SOURCE_URL"); ok && value != "" {
		c.Gallery.SourceURL = value
	}
	if value, ok := os.LookupEnv("DATABASE_FILENAME"); ok && value != "" {
		c.Database.Filename = value
	}
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.App.BaseURL == "" {
		c.App.BaseURL = fmt.Sprintf("http://localhost:%d/", c.App.Port)
	}
	if c.Gallery.SourceURL == "" {
		c.Gallery.SourceURL = c.App.BaseURL
	}
	if c.Gallery.ListPath == "" {
		c.Gallery.ListPath = def.Gallery.ListPath
	}
	if c.Gallery.DetailPath == "" {
		c.Gallery.DetailPath = def.Gallery.DetailPath
	}
	if c.Gallery.RequestTimeout == 0 {
		c.Gallery.RequestTimeout = def.Gallery.RequestTimeout
	}
	if c.Gallery.StorageKey == "" {
		c.Gallery.StorageKey = def.Gallery.StorageKey
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app port must be between 1 and 65535")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	source, err := url.Parse(c.Gallery.SourceURL)
	if err != nil || (source.Scheme != "http" && source.Scheme != "https") || source.Host == "" {
		return fmt.Errorf("gallery source_url must be an absolute http(s) URL")
	}
	if !strings.Contains(c.Gallery.DetailPath, "{id}") {
		return fmt.Errorf("gallery detail_path must contain the {id} placeholder")
	}
	if c.Gallery.RequestTimeout < 0 {
		return fmt.Errorf("gallery request_timeout must not be negative")
	}
	if c.Gallery.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.Gallery.RefreshCron); err != nil {
			return fmt.Errorf("gallery refresh_cron is invalid: %w", err)
		}
	}
	if c.RateLimit.ReloadCooldown < 0 || c.RateLimit.ReloadMaxPerHour < 0 {
		return fmt.Errorf("ratelimit values must not be negative")
	}

	return nil
}

// IsDevelopment reports whether console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
