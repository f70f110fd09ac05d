package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	Store struct {
		// Path to the SQLite database file used as the document store
		Path string `mapstructure:"path" yaml:"path"`
		// InsertBatchSize controls how many documents go into one insert transaction
		InsertBatchSize int `mapstructure:"insert_batch_size" yaml:"insert_batch_size"`
		// ExportChunkSize controls how many documents are read per export page
		ExportChunkSize int `mapstructure:"export_chunk_size" yaml:"export_chunk_size"`
	} `mapstructure:"store" yaml:"store"`

	Reconcile struct {
		// Organization name matched against issuer/recipient for CFOP categorization
		Organization string `mapstructure:"organization" yaml:"organization"`
		// RulesFile is an optional YAML file overriding the built-in CFOP rule table
		RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"reconcile" yaml:"reconcile"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.fiscal-recon")
	v.AddConfigPath(".fiscal-recon")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("FISCAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.include_headers", true)

	v.SetDefault("store.path", "fiscal.db")
	v.SetDefault("store.insert_batch_size", 500)
	v.SetDefault("store.export_chunk_size", 1000)

	v.SetDefault("reconcile.organization", "ANDRITZ")
	v.SetDefault("reconcile.rules_file", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Store.InsertBatchSize < 1 {
		return fmt.Errorf("store.insert_batch_size must be positive, got: %d", config.Store.InsertBatchSize)
	}

	if config.Store.ExportChunkSize < 1 {
		return fmt.Errorf("store.export_chunk_size must be positive, got: %d", config.Store.ExportChunkSize)
	}

	if config.Reconcile.Organization == "" {
		return fmt.Errorf("reconcile.organization must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
