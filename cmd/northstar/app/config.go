package app

import (
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/northstarhq/northstar/internal/config"
)

// Config holds the CLI configuration resolved from environment files,
// environment variables, and flags.
type Config struct {
	Verbose      bool
	Quiet        bool
	NoColor      bool
	Format       string // text, json, yaml
	LogLevel     string
	DatabasePath string
}

// LoadConfig loads environment files and resolves the CLI configuration.
// .env.local takes precedence over .env; both are optional.
func LoadConfig() (*Config, error) {
	// godotenv never overwrites variables already present in the
	// environment, so load the local file first.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	// Optional ~/.northstar.yaml; a missing file is not an error.
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigName(".northstar")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(home)
		_ = viper.ReadInConfig()
	}

	return &Config{
		Format:       "text",
		DatabasePath: config.DatabasePath(),
	}, nil
}

// UpdateFromFlags applies parsed command-line flags to the configuration.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, dbPath string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if dbPath != "" {
		c.DatabasePath = dbPath
	}
	if c.DatabasePath == "" {
		c.DatabasePath = config.DatabasePath()
	}
	if noColor {
		color.NoColor = true
	}
}
