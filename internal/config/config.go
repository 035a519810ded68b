package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Ledger   LedgerConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path           string
	MigrationsPath string `mapstructure:"migrations_path"`
}

// LedgerConfig holds balance-correction settings. Code is the legacy
// shared confirmation code, a migration shim layered on the finance-admin
// capability check; it comes from config or env and is never compiled in.
type LedgerConfig struct {
	Code   string
	Admins []string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from file and env. Env var overrides use prefix RETROBUS_FINANCE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "retrobus-finance", "finance.db"))
	v.SetDefault("database.migrations_path", "internal/database/migrations")
	v.SetDefault("ledger.code", "")
	v.SetDefault("ledger.admins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("RETROBUS_FINANCE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "retrobus-finance"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RETROBUS_FINANCE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// IsAdmin reports whether actor is listed with the finance-admin capability.
func (c Config) IsAdmin(actor string) bool {
	for _, a := range c.Ledger.Admins {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(actor)) {
			return true
		}
	}
	return false
}
