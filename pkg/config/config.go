// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default file names, matching the layout of the source export.
const (
	DefaultInputPath  = "ConList.csv"
	DefaultOutputPath = "Structured_Sanctions_Data.csv"

	// The UK export carries one metadata line above the header row.
	DefaultSkipLines = 1
)

// Config represents the application configuration
type Config struct {
	// Paths
	InputPath  string `mapstructure:"input_path"`
	OutputPath string `mapstructure:"output_path"`

	// Input layout
	SkipLines int `mapstructure:"skip_lines"`

	// Processing
	WorkerPoolSize int `mapstructure:"worker_pool_size"` // 0 means use runtime.NumCPU()

	// Logging
	Quiet     bool   `mapstructure:"quiet"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CountrySynonyms extends the built-in variant->canonical table.
	// The table is data, not logic: new mappings need no code change.
	CountrySynonyms map[string]string `mapstructure:"country_synonyms"`
}

// Load builds the configuration from defaults, an optional YAML file,
// and SANCTIONS_-prefixed environment variables, in increasing
// precedence. A .env file in the working directory is honored when
// present.
func Load(configFile string) (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("input_path", DefaultInputPath)
	v.SetDefault("output_path", DefaultOutputPath)
	v.SetDefault("skip_lines", DefaultSkipLines)
	v.SetDefault("worker_pool_size", 0)
	v.SetDefault("quiet", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetEnvPrefix("SANCTIONS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input path is required")
	}
	if c.OutputPath == "" {
		return errors.New("output path is required")
	}
	if c.SkipLines < 0 {
		return errors.New("skip lines cannot be negative")
	}
	if c.WorkerPoolSize < 0 {
		return errors.New("worker pool size cannot be negative")
	}
	return nil
}
