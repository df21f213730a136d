// Package config loads fixadat settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog/log"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env         string        `yaml:"env" env:"FIXADAT_ENV" env-default:"prod" validate:"oneof=local dev prod"`
	FixadatURL  string        `yaml:"fixadat_url" env:"FIXADAT_URL" env-default:"https://fixadat.com" validate:"required,url"`
	SquawgURL   string        `yaml:"squawg_url" env:"SQUAWG_URL" env-default:"https://squawg.com" validate:"required,url"`
	CSRFToken   string        `yaml:"csrf_token" env:"FIXADAT_CSRF_TOKEN"`
	TimeZone    string        `yaml:"time_zone" env:"FIXADAT_TIME_ZONE" validate:"required,timezone"`
	Locale      string        `yaml:"locale" env:"FIXADAT_LOCALE" env-default:"en" validate:"required,bcp47_language_tag"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"FIXADAT_HTTP_TIMEOUT" env-default:"0s" validate:"gte=0s"`
	LogFile     string        `yaml:"log_file" env:"FIXADAT_LOG_FILE"`
	LogLevel    string        `yaml:"log_level" env:"FIXADAT_LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`

	// Dir holds the config file, the log and the bookmarks.
	Dir string `yaml:"-" env:"FIXADAT_HOME"`
}

// Load reads FIXADAT_CONFIG, or config.yml in the fixadat directory when it
// exists, then applies environment overrides and validates the result.
func Load() (*Config, error) {
	var cfg Config

	dir := os.Getenv("FIXADAT_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: find home directory: %w", err)
		}
		dir = filepath.Join(home, ".fixadat")
	}

	path := os.Getenv("FIXADAT_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, "config.yml")
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicit || !errors.Is(statErr, os.ErrNotExist):
		return nil, fmt.Errorf("config: %w", statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if cfg.Dir == "" {
		cfg.Dir = dir
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.Dir, "fixadat.log")
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = systemTimeZone()
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load that exits on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	return cfg
}

// BookmarksFile is where created organizer and host links are kept.
func (c *Config) BookmarksFile() string {
	return filepath.Join(c.Dir, "links")
}

// systemTimeZone uses TZ when it names a loadable zone, else UTC.
func systemTimeZone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}
	return "UTC"
}
