package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment overrides: SCHEMASYNC_DSN,
// SCHEMASYNC_SERVER_TOKEN and so on.
const EnvPrefix = "SCHEMASYNC"

// NewViper returns a viper instance reading SCHEMASYNC_* variables. Nested
// keys use an underscore in the variable name.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func (c *Config) override(v *viper.Viper) {
	setString(v, "base_path", &c.BasePath)
	setString(v, "migrations_path", &c.MigrationsPath)
	setString(v, "connection", &c.Connection)
	setString(v, "driver", &c.Driver)
	setString(v, "dsn", &c.DSN)
	setString(v, "actual_snapshot", &c.ActualSnapshot)
	setString(v, "server.addr", &c.Server.Addr)
	setString(v, "server.token", &c.Server.Token)

	if v.IsSet("ignored_tables") {
		c.IgnoredTables = splitList(v.GetStringSlice("ignored_tables"))
	}
	if v.IsSet("server.cors_origins") {
		c.Server.CORSOrigins = splitList(v.GetStringSlice("server.cors_origins"))
	}
	if v.IsSet("server.rate_limit") {
		c.Server.RateLimit = v.GetInt("server.rate_limit")
	}
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
}

// splitList accepts both repeated values and a single comma separated one,
// as environment variables only carry the latter.
func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
