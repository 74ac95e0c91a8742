package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"easel/pkg/logging"
)

const configFileName = "config.yaml"

// Indirection for testing.
var osReadFile = os.ReadFile

// GetDefaultConfig returns the built-in defaults used when no
// config.yaml exists.
func GetDefaultConfig() EaselConfig {
	return EaselConfig{
		LogLevel: "info",
		Port:     8501,
		Theme:    "default",
	}
}

// LoadConfig loads config.yaml from the given directory. A missing file
// yields the defaults; a malformed file is an error.
func LoadConfig(configDir string) (EaselConfig, error) {
	configFilePath := filepath.Join(configDir, configFileName)
	config := GetDefaultConfig()

	data, err := osReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return EaselConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		// config malformed
		return EaselConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// ParseLogLevel maps a config log level string onto the logging
// package's levels, defaulting to Info for unknown values.
func ParseLogLevel(level string) logging.LogLevel {
	switch level {
	case "debug":
		return logging.LevelDebug
	case "info":
		return logging.LevelInfo
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
