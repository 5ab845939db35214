// Package config loads the gallery configuration from defaults, an optional
// config.yaml and GALLERY_* environment variables, in rising precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "GALLERY"

const (
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Store     StoreConfig     `mapstructure:"store"`
	S3        S3Config        `mapstructure:"s3"`
	Thumbnail ThumbnailConfig `mapstructure:"thumbnail"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	BaseURL         string        `mapstructure:"base_url"`
	FrameAncestors  string        `mapstructure:"frame_ancestors"`
	MetricsEnabled  bool          `mapstructure:"metrics_enabled"`
	DocsEnabled     bool          `mapstructure:"docs_enabled"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL         string `mapstructure:"url"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	// AdminID is the user id of the one principal allowed to mutate the gallery.
	AdminID string `mapstructure:"admin_id"`
}

type StoreConfig struct {
	Backend string        `mapstructure:"backend"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type S3Config struct {
	Endpoint     string `mapstructure:"endpoint"`
	Bucket       string `mapstructure:"bucket"`
	Prefix       string `mapstructure:"prefix"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	Region       string `mapstructure:"region"`
	CreateBucket bool   `mapstructure:"create_bucket"`
}

type ThumbnailConfig struct {
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

type RateLimitConfig struct {
	LoginPerSecond float64 `mapstructure:"login_per_second"`
	LoginBurst     int     `mapstructure:"login_burst"`
	APIPerSecond   float64 `mapstructure:"api_per_second"`
	APIBurst       int     `mapstructure:"api_burst"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. configFile may be empty, in which case config.yaml
// is looked up in the working directory and ./config; a missing file is not an
// error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")

	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can fill it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.frame_ancestors", "")
	v.SetDefault("server.metrics_enabled", true)
	v.SetDefault("server.docs_enabled", false)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.admin_id", "")

	v.SetDefault("store.backend", BackendPostgres)
	v.SetDefault("store.timeout", 10*time.Second)

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "videos/")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.create_bucket", false)

	v.SetDefault("thumbnail.probe_timeout", 5*time.Second)

	v.SetDefault("ratelimit.login_per_second", 0.2)
	v.SetDefault("ratelimit.login_burst", 5)
	v.SetDefault("ratelimit.api_per_second", 5.0)
	v.SetDefault("ratelimit.api_burst", 20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks the settings the serve command cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.AdminID == "" {
		errs = append(errs, errors.New("auth.admin_id is required"))
	}
	switch c.Store.Backend {
	case BackendPostgres:
	case BackendS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3.bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be %q or %q, got %q", BackendPostgres, BackendS3, c.Store.Backend))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	return errors.Join(errs...)
}
