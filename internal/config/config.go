// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads service configuration from flag defaults, an
// optional YAML file, the environment (after an optional .env file) and
// explicitly set flags, in increasing order of precedence.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/qna-dev/qna/internal/auth"
	"github.com/qna-dev/qna/internal/logging"
)

// Config is the full service configuration.
type Config struct {
	Port        int             `koanf:"port" jsonschema:"minimum=1,maximum=65535"`
	LogLevel    string          `koanf:"log_level"`
	LogFormat   string          `koanf:"log_format" jsonschema:"enum=json,enum=text"`
	MetricsAddr string          `koanf:"metrics_addr"`
	Database    DatabaseConfig  `koanf:"database"`
	Token       TokenConfig     `koanf:"token"`
	Profanity   ProfanityConfig `koanf:"profanity"`
	Crypto      CryptoConfig    `koanf:"crypto"`
}

// DatabaseConfig locates PostgreSQL. URL wins over the individual parts.
type DatabaseConfig struct {
	URL         string `koanf:"url"`
	Host        string `koanf:"host"`
	Port        int    `koanf:"port" jsonschema:"minimum=1,maximum=65535"`
	Name        string `koanf:"name"`
	User        string `koanf:"user"`
	Password    string `koanf:"password"`
	MaxConns    int    `koanf:"max_conns" jsonschema:"minimum=1"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// TokenConfig holds the session token key: 32 raw bytes or 64 hex characters.
type TokenConfig struct {
	SecretKey string `koanf:"secret_key"`
}

// ProfanityConfig configures the content filter. An empty URL disables it.
type ProfanityConfig struct {
	URL    string `koanf:"url"`
	APIKey string `koanf:"api_key"`
}

// CryptoConfig bounds concurrent password hashing. Zero means GOMAXPROCS.
type CryptoConfig struct {
	Workers int `koanf:"workers" jsonschema:"minimum=0"`
}

// Defaults.
const (
	DefaultPort        = 8080
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "json"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultDBHost      = "localhost"
	DefaultDBPort      = 5432
	DefaultDBName      = "rustwebdev"
	DefaultDBUser      = "postgres"
	DefaultDBMaxConns  = 5
)

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	"PORT":               "port",
	"LOG_LEVEL":          "log_level",
	"LOG_FORMAT":         "log_format",
	"METRICS_ADDR":       "metrics_addr",
	"DATABASE_URL":       "database.url",
	"POSTGRES_HOST":      "database.host",
	"POSTGRES_PORT":      "database.port",
	"POSTGRES_DB":        "database.name",
	"POSTGRES_USER":      "database.user",
	"POSTGRES_PASSWORD":  "database.password",
	"POSTGRES_MAX_CONNS": "database.max_conns",
	"AUTO_MIGRATE":       "database.auto_migrate",
	"TOKEN_SECRET_KEY":   "token.secret_key",
	"BAD_WORDS_API_URL":  "profanity.url",
	"BAD_WORDS_API_KEY":  "profanity.api_key",
	"CRYPTO_WORKERS":     "crypto.workers",
}

// flagKeys maps flag names to config keys. Flags not listed here (such as
// --config) are not configuration values.
var flagKeys = map[string]string{
	"port":               "port",
	"log-level":          "log_level",
	"log-format":         "log_format",
	"metrics-addr":       "metrics_addr",
	"database-url":       "database.url",
	"database-host":      "database.host",
	"database-port":      "database.port",
	"database-name":      "database.name",
	"database-user":      "database.user",
	"database-password":  "database.password",
	"database-max-conns": "database.max_conns",
	"auto-migrate":       "database.auto_migrate",
	"bad-words-api-url":  "profanity.url",
	"crypto-workers":     "crypto.workers",
}

// RegisterFlags adds every configuration flag with its default to flags.
// The token key and API key have no flag so they never appear in argv.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Int("port", DefaultPort, "HTTP listen port")
	flags.String("log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", DefaultLogFormat, "log format (json or text)")
	flags.String("metrics-addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("database-url", "", "PostgreSQL URL (overrides the individual database flags)")
	flags.String("database-host", DefaultDBHost, "PostgreSQL host")
	flags.Int("database-port", DefaultDBPort, "PostgreSQL port")
	flags.String("database-name", DefaultDBName, "PostgreSQL database name")
	flags.String("database-user", DefaultDBUser, "PostgreSQL user")
	flags.String("database-password", "", "PostgreSQL password")
	flags.Int("database-max-conns", DefaultDBMaxConns, "maximum pooled connections")
	flags.Bool("auto-migrate", true, "apply pending migrations on startup")
	flags.String("bad-words-api-url", "", "content filter URL (empty = disabled)")
	flags.Int("crypto-workers", 0, "concurrent password hash operations (0 = GOMAXPROCS)")
}

// LoadOptions locates the optional files.
type LoadOptions struct {
	// ConfigFile is a YAML file. Empty skips it.
	ConfigFile string
	// DotEnvFile is loaded into the process environment without
	// overriding variables that are already set. A missing file is ignored.
	DotEnvFile string
}

// Load builds a Config from flags and the sources in opts. It does not validate.
func Load(flags *pflag.FlagSet, opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("file", opts.ConfigFile).
				Wrapf(err, "read config file")
		}
		if err := ValidateFile(data); err != nil {
			return nil, oops.With("file", opts.ConfigFile).Wrap(err)
		}
		if err := k.Load(file.Provider(opts.ConfigFile), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("file", opts.ConfigFile).
				Wrapf(err, "load config file")
		}
	}

	if opts.DotEnvFile != "" {
		if err := godotenv.Load(opts.DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("file", opts.DotEnvFile).
				Wrapf(err, "load env file")
		}
	}

	if err := k.Load(env.Provider("", ".", func(name string) string {
		return envKeys[name]
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "load environment")
	}

	// Unchanged flags only fill keys no other source set.
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "load flags")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "decode config")
	}
	return &cfg, nil
}

func invalid(key string, format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf(format, args...)
}

// ValidateDatabase checks only what migrations need.
func (c *Config) ValidateDatabase() error {
	if c.Database.URL == "" {
		if c.Database.Host == "" {
			return invalid("database.host", "database host is required when database.url is empty")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return invalid("database.port", "database port must be 1-65535, got %d", c.Database.Port)
		}
		if c.Database.Name == "" {
			return invalid("database.name", "database name is required when database.url is empty")
		}
	}
	if c.Database.MaxConns < 1 {
		return invalid("database.max_conns", "max_conns must be positive, got %d", c.Database.MaxConns)
	}
	return nil
}

// Validate checks everything the server needs.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return invalid("port", "port must be 1-65535, got %d", c.Port)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return invalid("log_format", "log format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "log_level").Wrap(err)
	}
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.Token.SecretKey == "" {
		return invalid("token.secret_key", "TOKEN_SECRET_KEY is required")
	}
	if _, err := auth.ParseSecretKey(c.Token.SecretKey); err != nil {
		return oops.With("key", "token.secret_key").Wrap(err)
	}
	if c.Profanity.URL != "" && c.Profanity.APIKey == "" {
		return invalid("profanity.api_key", "BAD_WORDS_API_KEY is required when BAD_WORDS_API_URL is set")
	}
	if c.Crypto.Workers < 0 {
		return invalid("crypto.workers", "crypto workers must not be negative, got %d", c.Crypto.Workers)
	}
	return nil
}

// SecretKey parses the token key.
func (c *Config) SecretKey() (auth.SecretKey, error) {
	return auth.ParseSecretKey(c.Token.SecretKey)
}

// DatabaseURL returns Database.URL, or a postgres:// URL built from the parts.
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:   "/" + c.Database.Name,
	}
	if c.Database.Password != "" {
		u.User = url.UserPassword(c.Database.User, c.Database.Password)
	} else if c.Database.User != "" {
		u.User = url.User(c.Database.User)
	}
	return u.String()
}

// ListenAddr is the HTTP listen address.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}

// LogValue omits secrets.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("port", c.Port),
		slog.String("log_level", c.LogLevel),
		slog.String("log_format", c.LogFormat),
		slog.String("metrics_addr", c.MetricsAddr),
		slog.String("database_host", c.Database.Host),
		slog.String("database_name", c.Database.Name),
		slog.Bool("database_url_set", c.Database.URL != ""),
		slog.Int("database_max_conns", c.Database.MaxConns),
		slog.Bool("auto_migrate", c.Database.AutoMigrate),
		slog.Bool("profanity_enabled", c.Profanity.URL != ""),
		slog.Int("crypto_workers", c.Crypto.Workers),
	)
}
