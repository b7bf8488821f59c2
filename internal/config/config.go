package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a tabula session.
// Values are populated from .tabula.yaml, TABULA_* env vars, and CLI flags.
type Config struct {
	DataDir               string `mapstructure:"data_dir"`
	BackupRetention       int    `mapstructure:"backup_retention"`
	AutoSave              bool   `mapstructure:"auto_save"`
	TimeFormat            string `mapstructure:"time_format"` // "24h" or "12h"
	DeleteCascade         bool   `mapstructure:"delete_cascade"`
	History               bool   `mapstructure:"history"`
	ShowWeekend           bool   `mapstructure:"show_weekend"`
	DefaultSessionMinutes int    `mapstructure:"default_session_minutes"`
	Verbose               bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("data_dir", defaultDataDir())
	viper.SetDefault("backup_retention", 10)
	viper.SetDefault("auto_save", true)
	viper.SetDefault("time_format", "24h")
	viper.SetDefault("delete_cascade", false)
	viper.SetDefault("history", true)
	viper.SetDefault("show_weekend", false)
	viper.SetDefault("default_session_minutes", 60)
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}

// defaultDataDir is ~/.tabula, falling back to a relative directory when
// the home directory cannot be resolved.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tabula"
	}
	return filepath.Join(home, ".tabula")
}
