package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/theCampel/lightspeed/internal/model"
)

const (
	defaultBackendURL     = "http://127.0.0.1:8000"
	defaultStreamURL      = "ws://127.0.0.1:8000/ws"
	defaultUpdateInterval = model.DefaultUpdateInterval
)

// cliConfig holds only dashboard-relevant configuration.
type cliConfig struct {
	BackendURL     string        `mapstructure:"backend-url"`
	StreamURL      string        `mapstructure:"stream-url"`
	UpdateInterval time.Duration `mapstructure:"update-interval"`
	CaptureEnabled bool          `mapstructure:"capture-enabled"`
	CapturePath    string        `mapstructure:"capture-path"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("LIGHTSPEED")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("backend-url", defaultBackendURL)
	v.SetDefault("stream-url", defaultStreamURL)
	v.SetDefault("update-interval", defaultUpdateInterval)
	v.SetDefault("capture-enabled", true)
	v.SetDefault("capture-path", filepath.Join(home, ".local", "state", "lightspeed", "session.capture"))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "lightspeed", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if strings.HasPrefix(cfg.CapturePath, "~/") {
		cfg.CapturePath = filepath.Join(home, cfg.CapturePath[2:])
	}

	return cfg, nil
}
