package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"path/filepath"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// applyDotEnv reads the connection a Laravel project declares in its .env
// file. The file is parsed, not loaded, so the process environment is left
// alone.
func (l *Loader) applyDotEnv(cfg *Config) error {
	path := filepath.Join(cfg.BasePath, ".env")
	f, err := l.Fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Driver == "" {
		cfg.Driver = env["DB_CONNECTION"]
	}
	for _, key := range []string{"DB_URL", "DATABASE_URL"} {
		if env[key] != "" {
			cfg.DSN = env[key]
			return nil
		}
	}
	cfg.DSN = laravelDSN(cfg, env)
	return nil
}

// laravelDSN assembles a driver DSN from the DB_* connection settings.
func laravelDSN(cfg *Config, env map[string]string) string {
	host := env["DB_HOST"]
	if host == "" {
		host = "127.0.0.1"
	}
	database := env["DB_DATABASE"]

	switch cfg.Driver {
	case "mysql", "mariadb":
		if database == "" {
			return ""
		}
		mc := mysql.NewConfig()
		mc.User = env["DB_USERNAME"]
		mc.Passwd = env["DB_PASSWORD"]
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(host, portOr(env["DB_PORT"], "3306"))
		mc.DBName = database
		if s := env["DB_SOCKET"]; s != "" {
			mc.Net, mc.Addr = "unix", s
		}
		return mc.FormatDSN()
	case "pgsql":
		if database == "" {
			return ""
		}
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(env["DB_USERNAME"], env["DB_PASSWORD"]),
			Host:   net.JoinHostPort(host, portOr(env["DB_PORT"], "5432")),
			Path:   "/" + database,
		}
		return u.String()
	case "sqlsrv":
		if database == "" {
			return ""
		}
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(env["DB_USERNAME"], env["DB_PASSWORD"]),
			Host:     net.JoinHostPort(host, portOr(env["DB_PORT"], "1433")),
			RawQuery: url.Values{"database": {database}}.Encode(),
		}
		return u.String()
	case "sqlite":
		if database == "" {
			database = filepath.Join("database", "database.sqlite")
		}
		return cfg.resolve(database)
	}
	return ""
}

func portOr(port, def string) string {
	if port == "" {
		return def
	}
	return port
}
