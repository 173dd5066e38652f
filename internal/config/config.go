// Package config carries the runtime configuration of the distributor
// process: flag/env wiring for the CLI, database connection settings, and
// paths. The per-epoch distribution parameters live in a separate JSON
// document, see epoch.go.
package config

import (
	"regexp"

	"github.com/spf13/viper"
)

const ENV_PREFIX = "DISTRIBUTOR"

const (
	Debug = "debug"

	DatabaseHost       = "database.host"
	DatabasePort       = "database.port"
	DatabaseUser       = "database.user"
	DatabasePassword   = "database.password"
	DatabaseDbName     = "database.db_name"
	DatabaseSchemaName = "database.schema_name"
	DatabaseSSLMode    = "database.ssl_mode"

	ReportsRoot = "reports-root"
	StatsdUrl   = "statsd-url"
)

type DatabaseConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	DbName     string
	SchemaName string
	SSLMode    string
}

type Config struct {
	Debug          bool
	DatabaseConfig DatabaseConfig
	ReportsRoot    string
	StatsdUrl      string
}

// NewConfig materializes the runtime config from viper's merged
// flag/env/default state.
func NewConfig() *Config {
	return &Config{
		Debug: viper.GetBool(normalizeFlagName(Debug)),
		DatabaseConfig: DatabaseConfig{
			Host:       viper.GetString(normalizeFlagName(DatabaseHost)),
			Port:       viper.GetInt(normalizeFlagName(DatabasePort)),
			User:       viper.GetString(normalizeFlagName(DatabaseUser)),
			Password:   viper.GetString(normalizeFlagName(DatabasePassword)),
			DbName:     viper.GetString(normalizeFlagName(DatabaseDbName)),
			SchemaName: viper.GetString(normalizeFlagName(DatabaseSchemaName)),
			SSLMode:    viper.GetString(normalizeFlagName(DatabaseSSLMode)),
		},
		ReportsRoot: viper.GetString(normalizeFlagName(ReportsRoot)),
		StatsdUrl:   viper.GetString(normalizeFlagName(StatsdUrl)),
	}
}

var kebabRegex = regexp.MustCompile(`[-.]`)

// KebabToSnakeCase rewrites a flag name into the form viper uses for env
// binding, e.g. "database.db-name" -> "database_db_name".
func KebabToSnakeCase(s string) string {
	return kebabRegex.ReplaceAllString(s, "_")
}

func normalizeFlagName(name string) string {
	return KebabToSnakeCase(name)
}
