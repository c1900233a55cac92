package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	General GeneralConfig `mapstructure:"general"`
	UI      UIConfig      `mapstructure:"ui"`
	Search  SearchConfig  `mapstructure:"search"`
	History HistoryConfig `mapstructure:"history"`
}

type BackendConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type GeneralConfig struct {
	Role string `mapstructure:"role"`
}

type UIConfig struct {
	Theme           string `mapstructure:"theme"`
	MouseEnabled    bool   `mapstructure:"mouse_enabled"`
	PanelWidthRatio int    `mapstructure:"panel_width_ratio"`
}

type SearchConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
	PageSize   int `mapstructure:"page_size"`
}

type HistoryConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Backend: BackendConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "estatecrm",
			User:     "estatecrm",
			SSLMode:  "prefer",
		},
		General: GeneralConfig{
			Role: "agent",
		},
		UI: UIConfig{
			Theme:           "default",
			MouseEnabled:    true,
			PanelWidthRatio: 22,
		},
		Search: SearchConfig{
			DebounceMs: 1000,
			PageSize:   50,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},
	}
}

// Load loads configuration from files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config paths in priority order
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "estatecrm"))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("backend.host", "localhost")
	v.SetDefault("backend.port", 5432)
	v.SetDefault("backend.database", "estatecrm")
	v.SetDefault("backend.user", "estatecrm")
	v.SetDefault("backend.ssl_mode", "prefer")
	v.SetDefault("general.role", "agent")
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.mouse_enabled", true)
	v.SetDefault("ui.panel_width_ratio", 22)
	v.SetDefault("search.debounce_ms", 1000)
	v.SetDefault("search.page_size", 50)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)

	// Missing config file is fine, defaults apply
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "estatecrm"), nil
}
