// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the persisted application configuration.
type Config struct {
	Network    string           `mapstructure:"network" yaml:"network"`
	Provider   string           `mapstructure:"provider" yaml:"provider"`
	Language   string           `mapstructure:"language" yaml:"language"`
	Journal    JournalConfig    `mapstructure:"journal" yaml:"journal"`
	Node       NodeConfig       `mapstructure:"node" yaml:"node"`
	Credential CredentialConfig `mapstructure:"credential" yaml:"credential"`
}

// JournalConfig selects the operation journal backend.
type JournalConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

// NodeConfig configures the bundled local node.
type NodeConfig struct {
	Listen  string `mapstructure:"listen" yaml:"listen"`
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// CredentialConfig names where a private key may be picked up from.
// The key itself is never part of the configuration file.
type CredentialConfig struct {
	Env string `mapstructure:"env" yaml:"env"`
}

// Defaults returns the default key/value pairs used by LoadConfig.
func Defaults() map[string]any {
	return map[string]any{
		"network":        PresetTestnet,
		"provider":       "grpc",
		"language":       "en",
		"journal.type":   "sqlite",
		"journal.dsn":    "file:dkgtestbed?mode=memory&cache=shared",
		"node.listen":    "127.0.0.1:8900",
		"node.data_dir":  "",
		"credential.env": "DKG_PRIVATE_KEY",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "DKGTestbed")
		default:
			configDir = "/etc/dkgtestbed"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "dkgtestbed")
	}

	return filepath.Join(configDir, "dkgtestbed.yaml"), nil
}

// LoadConfig resolves configuration with precedence flags > env > file > defaults.
// When no configuration file exists the returned value is still fully
// populated and err is a viper.ConfigFileNotFoundError.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("dkgtestbed")
	v.SetConfigType("yaml")

	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFound = err
	}

	v.SetEnvPrefix("dkgtestbed")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFound
}

// WriteConfigFile writes c as YAML to the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0o600)
}
