package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = "transform-pages"
	envPrefix  = "TRANSFORM_PAGES"
)

// Config holds every setting of a transform run. Values come from, in
// increasing priority: defaults, the YAML config file, TRANSFORM_PAGES_*
// environment variables (a .env file is honored) and command-line flags.
type Config struct {
	Dir              string        `mapstructure:"dir"`
	DryRun           bool          `mapstructure:"dry_run"`
	Backup           bool          `mapstructure:"backup"`
	Force            bool          `mapstructure:"force"`
	FillMedia        bool          `mapstructure:"fill_media"`
	MediaManifest    string        `mapstructure:"media_manifest"`
	Jobs             int           `mapstructure:"jobs"`
	FileTimeout      time.Duration `mapstructure:"file_timeout"`
	MinContentLength int           `mapstructure:"min_content_length"`
	ShortContent     string        `mapstructure:"short_content"`
	Report           string        `mapstructure:"report"`
	Index            string        `mapstructure:"index"`
	Sitemap          string        `mapstructure:"sitemap"`
	SiteURL          string        `mapstructure:"site_url"`
	MetricsFile      string        `mapstructure:"metrics_file"`
	CacheDir         string        `mapstructure:"cache_dir"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFile          string        `mapstructure:"log_file"`
}

// DefaultPath returns the config file named by TRANSFORM_PAGES_CONFIG, or
// "" to search the default locations.
func DefaultPath() string {
	return os.Getenv(envPrefix + "_CONFIG")
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dir", "src/pages")
	v.SetDefault("dry_run", false)
	v.SetDefault("backup", false)
	v.SetDefault("force", false)
	v.SetDefault("fill_media", false)
	v.SetDefault("media_manifest", "")
	v.SetDefault("jobs", 1)
	v.SetDefault("file_timeout", time.Duration(0))
	v.SetDefault("min_content_length", 50)
	v.SetDefault("short_content", "placeholder")
	v.SetDefault("report", "")
	v.SetDefault("index", "")
	v.SetDefault("sitemap", "")
	v.SetDefault("site_url", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("cache_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// Load reads configuration into a Config. path may name an explicit
// config file; otherwise transform-pages.yaml is looked up in the working
// directory and ~/.config/transform-pages, and a missing file is fine.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Dir == "" {
		return errors.New("config dir is required")
	}
	if c.Jobs < 1 {
		return errors.New("config jobs must be at least 1")
	}
	if c.FileTimeout < 0 {
		return errors.New("config file_timeout must not be negative")
	}
	if c.MinContentLength < 0 {
		return errors.New("config min_content_length must not be negative")
	}
	switch c.ShortContent {
	case "placeholder", "fail":
	default:
		return fmt.Errorf("config short_content must be placeholder or fail, got %q", c.ShortContent)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	if c.Sitemap != "" {
		if c.SiteURL == "" {
			return errors.New("config site_url is required when sitemap is set")
		}
		u, err := url.Parse(c.SiteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config site_url %q must be an absolute http(s) URL", c.SiteURL)
		}
	}
	if c.MediaManifest != "" && !c.FillMedia {
		return errors.New("config media_manifest needs fill_media")
	}
	return nil
}

// SiteBaseURL returns SiteURL without a trailing slash.
func (c *Config) SiteBaseURL() string {
	return strings.TrimRight(c.SiteURL, "/")
}
