package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all configuration for the data layer
type Config struct {
	Environment string         `mapstructure:"environment"`
	DataDir     string         `mapstructure:"data_dir"`
	Database    DatabaseConfig `mapstructure:"database"`
	Backup      BackupConfig   `mapstructure:"backup"`
	List        ListConfig     `mapstructure:"list"`
}

// DatabaseConfig holds the store file configuration
type DatabaseConfig struct {
	// File is the store filename inside the data directory
	File string `mapstructure:"file"`
	// BusyTimeoutMS is the SQLite busy timeout in milliseconds
	BusyTimeoutMS int `mapstructure:"busy_timeout_ms"`
}

// Path returns the absolute store file path under dataDir
func (c *DatabaseConfig) Path(dataDir string) string {
	return filepath.Join(dataDir, c.File)
}

// BackupConfig holds backup retention configuration
type BackupConfig struct {
	// RetentionCount is the number of most recent backups to keep
	RetentionCount int `mapstructure:"retention_count"`
}

// ListConfig holds listing defaults
type ListConfig struct {
	// DefaultPageSize is used when the caller does not specify a page size
	DefaultPageSize int `mapstructure:"default_page_size"`
}

// Load loads configuration from environment and config files
func Load(serviceName string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("STAFFSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/staffstore")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("STAFFSTORE_DATA_DIR must be set to a writable directory")
	}
	if c.Database.File == "" {
		return errors.New("database file name must not be empty")
	}
	if c.Backup.RetentionCount < 1 {
		return fmt.Errorf("backup retention count must be positive, got %d", c.Backup.RetentionCount)
	}
	if c.List.DefaultPageSize < 1 {
		return fmt.Errorf("default page size must be positive, got %d", c.List.DefaultPageSize)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvDevelopment)
	v.SetDefault("data_dir", "")

	v.SetDefault("database.file", "exstaff.db")
	v.SetDefault("database.busy_timeout_ms", 5000)

	v.SetDefault("backup.retention_count", 10)

	v.SetDefault("list.default_page_size", 10)
}
