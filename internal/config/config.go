// Package config loads schemasync settings. Values come, in increasing
// precedence, from built-in defaults, the project's Laravel .env file, a
// TOML or YAML config file, and SCHEMASYNC_* environment variables or
// command line flags bound through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFiles are looked up in the working directory when no config file
// is named.
var DefaultFiles = []string{"schemasync.toml", "schemasync.yaml", "schemasync.yml"}

// DefaultIgnoredTables are framework bookkeeping tables left out of every
// comparison.
var DefaultIgnoredTables = []string{
	"migrations",
	"password_reset_tokens",
	"sessions",
	"cache",
	"cache_locks",
	"jobs",
	"job_batches",
	"failed_jobs",
}

type Config struct {
	BasePath       string   `toml:"base_path" yaml:"base_path"`
	MigrationsPath string   `toml:"migrations_path" yaml:"migrations_path"`
	Connection     string   `toml:"connection" yaml:"connection"`
	Driver         string   `toml:"driver" yaml:"driver"`
	DSN            string   `toml:"dsn" yaml:"dsn"`
	IgnoredTables  []string `toml:"ignored_tables" yaml:"ignored_tables"`
	ActualSnapshot string   `toml:"actual_snapshot" yaml:"actual_snapshot"`
	Server         Server   `toml:"server" yaml:"server"`
}

type Server struct {
	Addr        string   `toml:"addr" yaml:"addr"`
	CORSOrigins []string `toml:"cors_origins" yaml:"cors_origins"`
	RateLimit   int      `toml:"rate_limit" yaml:"rate_limit"`
	Token       string   `toml:"token" yaml:"token"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &Config{
		BasePath:       wd,
		MigrationsPath: filepath.Join("database", "migrations"),
		Connection:     "default",
		IgnoredTables:  append([]string(nil), DefaultIgnoredTables...),
		Server: Server{
			Addr:      ":8080",
			RateLimit: 120,
		},
	}
}

// Loader reads configuration files from Fs. Keys set in Viper override the
// file.
type Loader struct {
	Fs    afero.Fs
	Viper *viper.Viper
}

// NewLoader returns a loader over the operating system filesystem.
func NewLoader(v *viper.Viper) *Loader {
	return &Loader{Fs: afero.NewOsFs(), Viper: v}
}

// Load reads path, or the first of DefaultFiles that exists when path is
// empty. A missing default file is not an error; a missing named file is.
// The project .env fills in the connection when neither the file nor the
// overrides set a DSN.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, name := range DefaultFiles {
			if ok, _ := afero.Exists(l.Fs, name); ok {
				path = name
				break
			}
		}
	}
	if path != "" {
		if err := l.decode(path, cfg); err != nil {
			return nil, err
		}
	}

	if l.Viper != nil {
		cfg.override(l.Viper)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		if err := l.applyDotEnv(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.normalizeConnection(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) decode(path string, cfg *Config) error {
	data, err := afero.ReadFile(l.Fs, path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
	}
	return nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.BasePath, &c.MigrationsPath, &c.ActualSnapshot} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %s: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// MigrationsDir is the migrations directory, resolved against BasePath
// when relative.
func (c *Config) MigrationsDir() string {
	return c.resolve(c.MigrationsPath)
}

// SnapshotPath is the actual-schema snapshot file, or "" when the live
// database is used.
func (c *Config) SnapshotPath() string {
	if c.ActualSnapshot == "" {
		return ""
	}
	return c.resolve(c.ActualSnapshot)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.BasePath == "" {
		return p
	}
	return filepath.Join(c.BasePath, p)
}

// Validate reports settings that make a comparison impossible.
func (c *Config) Validate() error {
	if c.SnapshotPath() != "" {
		return nil
	}
	if c.DSN == "" {
		return errors.New("no database configured: set dsn, SCHEMASYNC_DSN or DB_* in .env")
	}
	if c.Driver == "" {
		return fmt.Errorf("cannot infer the driver from dsn %q: set driver", redact(c.DSN))
	}
	return nil
}
