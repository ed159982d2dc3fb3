// Package config assembles the service configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/mtlprog/dbprobe/internal/domain"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = 8000

	// DefaultHost is the default HTTP listen host.
	DefaultHost = "0.0.0.0"

	// DefaultDatabase is the database selected on the store when DATABASE is unset.
	DefaultDatabase = "test"

	// mongoURLTemplate is filled with username, password and port when MONGO_URL is unset.
	mongoURLTemplate = "mongodb://%s:%s@localhost:%s/?authMechanism=DEFAULT"
)

// Environment variable names.
const (
	EnvPort          = "PORT"
	EnvHost          = "HOST"
	EnvDatabase      = "DATABASE"
	EnvMongoUsername = "MONGO_ROOT_USERNAME"
	EnvMongoPassword = "MONGO_ROOT_PASSWORD"
	EnvMongoPort     = "MONGO_PORT"
	EnvMongoURL      = "MONGO_URL"
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Config is the resolved service configuration. It is immutable after Load.
type Config struct {
	Port     int
	Host     string
	Database string
	MongoURL string
}

// Load reads the configuration through lookup, applying defaults for
// unset or empty variables. Missing MongoDB credentials are not an error;
// the templated URL simply carries empty segments.
func Load(lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	port, err := parsePort(get(EnvPort, strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:     port,
		Host:     get(EnvHost, DefaultHost),
		Database: get(EnvDatabase, DefaultDatabase),
		MongoURL: BuildMongoURL(
			get(EnvMongoURL, ""),
			get(EnvMongoUsername, ""),
			get(EnvMongoPassword, ""),
			get(EnvMongoPort, ""),
		),
	}

	slog.Info("configuration loaded", "config", cfg)

	return cfg, nil
}

// BuildMongoURL returns override when it is non-empty, otherwise the
// localhost template interpolated with username, password and port.
func BuildMongoURL(override, username, password, port string) string {
	if override != "" {
		return override
	}
	return fmt.Sprintf(mongoURLTemplate, username, password, port)
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// LogValue implements slog.LogValuer so the connection password never reaches the log.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("port", c.Port),
		slog.String("host", c.Host),
		slog.String("database", c.Database),
		slog.String("mongo_url", RedactURL(c.MongoURL)),
	)
}

// RedactURL masks the password of a connection URL. URLs that net/url cannot
// parse have their whole userinfo masked.
func RedactURL(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		return u.Redacted()
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return raw
	}
	return scheme + "://xxxxx@" + rest[at+1:]
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidPort, raw)
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("%w: %d is out of range", domain.ErrInvalidPort, port)
	}
	return port, nil
}
