package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// FileConfig represents the top-level TOML structure for the runpack CLI.
//
//	[export]
//	directory = "/data/runs"
//	file_prefix = "{start[uid]}-"
//	flush = false
//
//	[catalog]
//	dsn = "sqlite://runpack.db"
//
//	[log]
//	level = "info"
//	file = "/var/log/runpack.log"
type FileConfig struct {
	Export  ExportConfig  `toml:"export" mapstructure:"export"`
	Catalog CatalogConfig `toml:"catalog" mapstructure:"catalog"`
	Log     LogConfig     `toml:"log" mapstructure:"log"`
}

type ExportConfig struct {
	Directory  string `toml:"directory" mapstructure:"directory"`
	FilePrefix string `toml:"file_prefix" mapstructure:"file_prefix"`
	Flush      bool   `toml:"flush" mapstructure:"flush"`
}

type CatalogConfig struct {
	// DSN selects the backend: sqlite://<path>, postgres://..., or a bare
	// sqlite file path. Empty disables the catalog.
	DSN string `toml:"dsn" mapstructure:"dsn"`
}

type LogConfig struct {
	Level      string `toml:"level" mapstructure:"level"`
	File       string `toml:"file" mapstructure:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
}

// Load reads a TOML config file.
func Load(path string) (*FileConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// ValidateForExport checks the fields the export command needs.
func (c *FileConfig) ValidateForExport() error {
	if c.Export.Directory == "" {
		return fmt.Errorf("config: export.directory is required")
	}
	return nil
}
