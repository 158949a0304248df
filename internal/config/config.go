package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Browse  BrowseConfig  `mapstructure:"browse"`
	UI      UIConfig      `mapstructure:"ui"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
	Token   TokenConfig   `mapstructure:"token"`
}

type CatalogConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite3" or "pgx"
	DSN    string `mapstructure:"dsn"`
}

type BrowseConfig struct {
	PageSize         int    `mapstructure:"page_size"`
	SearchDebounceMs int    `mapstructure:"search_debounce_ms"`
	DefaultSource    string `mapstructure:"default_source"`
}

// SearchDebounce returns the search debounce delay
func (b BrowseConfig) SearchDebounce() time.Duration {
	return time.Duration(b.SearchDebounceMs) * time.Millisecond
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
}

type HistoryConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type TokenConfig struct {
	Service string `mapstructure:"service"`
}

// Load reads configuration. A .env file in the working directory is applied
// to the environment first; then an explicit config file (if given) or
// config.yaml from the usual places; then CARDEX_* environment overrides.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	configDir, err := GetConfigPath()
	if err != nil {
		configDir = "."
	}

	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v, configDir)

	v.SetEnvPrefix("CARDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Browse.PageSize <= 0 {
		return nil, fmt.Errorf("browse.page_size must be positive, got %d", cfg.Browse.PageSize)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	configDir, err := GetConfigPath()
	if err != nil {
		configDir = "."
	}
	v := viper.New()
	setDefaults(v, configDir)

	var cfg Config
	// Defaults alone always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("catalog.driver", "sqlite3")
	v.SetDefault("catalog.dsn", filepath.Join(configDir, "catalog.db"))
	v.SetDefault("browse.page_size", 40)
	v.SetDefault("browse.search_debounce_ms", 300)
	v.SetDefault("browse.default_source", "")
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.mouse_enabled", true)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(configDir, "cardex.log"))
	v.SetDefault("token.service", "cardex")
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "cardex"), nil
}
