package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration. Values come from an optional
// YAML file overridden by environment variables (SERVER_HTTP_PORT, AUTH_ACCESS_SECRET, ...).
type Config struct {
	Server struct {
		Address  string `mapstructure:"address"`
		HTTPPort string `mapstructure:"http_port"`
	} `mapstructure:"server"`

	Storage struct {
		Driver   string `mapstructure:"driver"`   // "mongo" | "postgres" | "" (in-memory)
		DSN      string `mapstructure:"dsn"`      // mongodb://... or postgres://...
		Database string `mapstructure:"database"` // mongo database name
	} `mapstructure:"storage"`

	Auth struct {
		Issuer        string        `mapstructure:"issuer"`
		AccessSecret  string        `mapstructure:"access_secret"`
		RefreshSecret string        `mapstructure:"refresh_secret"`
		AccessTTL     time.Duration `mapstructure:"access_ttl"`
		RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	} `mapstructure:"auth"`

	Logging struct {
		Level  string `mapstructure:"level"`  // trace|debug|info|warning|error|fatal
		Format string `mapstructure:"format"` // text|json
		File   string `mapstructure:"file"`   // path prefix; empty means stdout only
	} `mapstructure:"logs"`

	RateLimit struct {
		Burst     int `mapstructure:"burst"`
		PerSecond int `mapstructure:"per_second"`
	} `mapstructure:"rate_limit"`
}

// Load reads configuration from env/file with defaults applied.
func Load() (*Config, error) {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.address", "0.0.0.0")
	viper.SetDefault("server.http_port", "8080")

	viper.SetDefault("storage.driver", "")
	viper.SetDefault("storage.dsn", "")
	viper.SetDefault("storage.database", "saasbase")

	viper.SetDefault("auth.issuer", "saasbase")
	viper.SetDefault("auth.access_secret", "")
	viper.SetDefault("auth.refresh_secret", "")
	viper.SetDefault("auth.access_ttl", 15*time.Minute)
	viper.SetDefault("auth.refresh_ttl", 14*24*time.Hour)

	viper.SetDefault("logs.level", "info")
	viper.SetDefault("logs.format", "text")
	viper.SetDefault("logs.file", "")

	viper.SetDefault("rate_limit.burst", 10)
	viper.SetDefault("rate_limit.per_second", 5)

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/saasbase")
	}

	if err := viper.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func validate(c *Config) error {
	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.New("server.address must not be empty")
	}
	if strings.TrimSpace(c.Server.HTTPPort) == "" {
		return errors.New("server.http_port must not be empty")
	}
	switch c.Storage.Driver {
	case "", "mongo", "postgres":
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	if c.Storage.Driver != "" && strings.TrimSpace(c.Storage.DSN) == "" {
		return fmt.Errorf("storage.dsn is required for driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Auth.AccessSecret) == "" {
		return errors.New("auth.access_secret must be set")
	}
	if strings.TrimSpace(c.Auth.RefreshSecret) == "" {
		return errors.New("auth.refresh_secret must be set")
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return errors.New("auth.access_secret and auth.refresh_secret must differ")
	}
	return nil
}
