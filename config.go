package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Trail   TrailConfig   `yaml:"trail"`

	Confirmations   bool   `yaml:"confirmations" env:"NULLVOID_CONFIRMATIONS" env-default:"true"`
	ExportDirectory string `yaml:"export_directory" env:"NULLVOID_EXPORT_DIR"`
}

type StorageConfig struct {
	Driver        string `yaml:"driver" env:"NULLVOID_STORAGE_DRIVER" env-default:"file"`
	Key           string `yaml:"key" env:"NULLVOID_STORAGE_KEY" env-default:"null-void-storage"`
	Path          string `yaml:"path" env:"NULLVOID_STORAGE_PATH"`
	RedisAddr     string `yaml:"redis_addr" env:"NULLVOID_REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"NULLVOID_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"NULLVOID_REDIS_DB" env-default:"0"`
}

type LogConfig struct {
	Path  string `yaml:"path" env:"NULLVOID_LOG_PATH"`
	Level string `yaml:"level" env:"NULLVOID_LOG_LEVEL" env-default:"info"`
}

type TrailConfig struct {
	Enabled   bool `yaml:"enabled" env:"NULLVOID_TRAIL" env-default:"true"`
	FrameRate int  `yaml:"frame_rate" env:"NULLVOID_TRAIL_FPS" env-default:"60"`
}

// loadConfig reads $NULLVOID_CONFIG, or ~/.config/nullvoid/config.yaml when
// that is unset. Environment variables override the file. A missing default
// file is not an error; a missing explicit one is.
func loadConfig() (*Config, error) {
	var cfg Config

	path := os.Getenv("NULLVOID_CONFIG")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "nullvoid.yaml"
	}
	return filepath.Join(dir, "nullvoid", "config.yaml")
}

func dataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nullvoid")
	}
	return "."
}

func (c *Config) applyDefaults() {
	c.Storage.Path = expandHome(c.Storage.Path)
	c.Log.Path = expandHome(c.Log.Path)
	c.ExportDirectory = expandHome(c.ExportDirectory)
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case "file":
			c.Storage.Path = dataDir()
		case "sqlite":
			c.Storage.Path = filepath.Join(dataDir(), "board.db")
		}
	}
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case "file", "sqlite", "memory":
	case "redis":
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage.redis_addr is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not one of file, sqlite, redis, memory", c.Storage.Driver))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, errors.New("storage.key must not be empty"))
	}
	if c.Trail.FrameRate < 1 || c.Trail.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("trail.frame_rate %d is outside 1..240", c.Trail.FrameRate))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}

// GetExportPath places an export file inside the configured directory.
func (c *Config) GetExportPath(filename string) string {
	if c.ExportDirectory == "" {
		return filename
	}
	os.MkdirAll(c.ExportDirectory, 0o755)
	return filepath.Join(c.ExportDirectory, filename)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
