// Package config loads CLI configuration from files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-version"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	ver "github.com/satishbabariya/schemaflow/cli/internal/version"
)

var AppFs = afero.NewOsFs()

// Config holds the application configuration.
type Config struct {
	// SnapshotPath is the declarative schema snapshot the plan is built from.
	SnapshotPath string
	// MigrationsDir holds generated migration directories.
	MigrationsDir string
	// Dialect selects the SQL generator: postgresql, mysql or sqlite.
	Dialect string
	// DatabaseURL is the DSN used by apply and status.
	DatabaseURL string
	// RequiredVersion constrains which CLI versions may run against this
	// project, e.g. ">= 0.2.0".
	RequiredVersion string
}

// Load reads configuration from .schemaflow.yaml, the environment and .env
// files. Later sources win.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".schemaflow")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "schemaflow"))

	viper.SetEnvPrefix("SCHEMAFLOW")
	viper.AutomaticEnv()

	viper.SetDefault("snapshot_path", "schema.yaml")
	viper.SetDefault("migrations_dir", "migrations")
	viper.SetDefault("dialect", "postgresql")

	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		SnapshotPath:    viper.GetString("snapshot_path"),
		MigrationsDir:   viper.GetString("migrations_dir"),
		Dialect:         viper.GetString("dialect"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RequiredVersion: viper.GetString("required_version"),
	}

	if err := cfg.CheckVersion(ver.Version); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CheckVersion verifies the running CLI satisfies the project's
// required_version constraint, if one is set.
func (c *Config) CheckVersion(current string) error {
	if c.RequiredVersion == "" {
		return nil
	}

	constraint, err := version.NewConstraint(c.RequiredVersion)
	if err != nil {
		return fmt.Errorf("invalid required_version %q: %w", c.RequiredVersion, err)
	}

	v, err := version.NewVersion(current)
	if err != nil {
		return fmt.Errorf("invalid CLI version %q: %w", current, err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("schemaflow %s does not satisfy required_version %q", current, c.RequiredVersion)
	}
	return nil
}

// DriverName maps the configured dialect to its database/sql driver.
func (c *Config) DriverName() (string, error) {
	switch c.Dialect {
	case "postgresql", "postgres":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "sqlite":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s", c.Dialect)
	}
}
