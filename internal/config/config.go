// Package config loads the settings of the maildecode tool from defaults, an
// optional YAML file, and environment variables, in that order.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zostay/go-maildecode/attachment"
	"github.com/zostay/go-maildecode/attachment/sqlsink"
)

// defaultMaxMessageSize is 25 MB in bytes.
const defaultMaxMessageSize = 26214400

// Config holds the complete tool configuration.
type Config struct {
	Attachments AttachmentsConfig `yaml:"attachments"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds the settings of the HTTP decoding service.
type ServerConfig struct {
	Listen         string `yaml:"listen"`
	MaxMessageSize int64  `yaml:"max_message_size"`
}

// AttachmentsConfig decides which attachments are kept and where.
type AttachmentsConfig struct {
	// Directory is where attachments are saved. When empty, attachments are
	// kept in memory.
	Directory string `yaml:"directory"`

	// Allow replaces attachment.DefaultAllowed when not empty.
	Allow []string `yaml:"allow"`

	// Deny removes types from the allowed set.
	Deny []string `yaml:"deny"`

	// Database is a SQLite database to save attachments into. It takes
	// precedence over Directory.
	Database string `yaml:"database"`

	// Save turns saving to Directory or Database on or off.
	Save bool `yaml:"save"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads configuration from environment variables on top of the
// defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads the YAML file on top of the defaults and then applies
// environment variables, which always win.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvVars()

	return cfg, nil
}

// Storage returns the directory attachments should be saved to, or the empty
// string if they should be kept in memory.
func (c *Config) Storage() string {
	if !c.Attachments.Save {
		return ""
	}
	return c.Attachments.Directory
}

// Database returns the SQLite database attachments should be saved to, or the
// empty string if they should not.
func (c *Config) Database() string {
	if !c.Attachments.Save {
		return ""
	}
	return c.Attachments.Database
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Sink builds the attachment sink the configuration asks for: a SQLite
// database when Database is set, a directory when Directory is set, and
// memory otherwise. The returned closer must be closed when the sink is no
// longer needed.
func (c *Config) Sink(logger *slog.Logger) (attachment.Sink, io.Closer, error) {
	if db := c.Database(); db != "" {
		s, err := sqlsink.Open(db)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}

	if dir := c.Storage(); dir != "" {
		s, err := attachment.NewStorageSink(dir, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	}

	return attachment.MemorySink{}, nopCloser{}, nil
}

// Policy builds the attachment policy.
func (c *Config) Policy() *attachment.Policy {
	p := attachment.DefaultPolicy()
	if len(c.Attachments.Allow) > 0 {
		p = attachment.NewPolicy(c.Attachments.Allow...)
	}
	return p.Deny(c.Attachments.Deny...)
}

// Level returns the configured slog level. Unknown levels are treated as
// info.
func (c *Config) Level() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds a logger writing to w, in JSON when the format is "json" and
// as text otherwise.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}

	var handler slog.Handler
	if c.Logging.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func (c *Config) applyDefaults() {
	c.Attachments.Save = true
	c.Server.Listen = ":8025"
	c.Server.MaxMessageSize = defaultMaxMessageSize
	c.Logging.Level = "info"
	c.Logging.Format = "text"
}

// splitList splits a comma separated list, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// applyEnvVars overrides configuration with environment variable values. Only
// non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("MAILDECODE_ATTACHMENT_DIR"); v != "" {
		c.Attachments.Directory = v
	}
	if v := os.Getenv("MAILDECODE_ATTACHMENT_DB"); v != "" {
		c.Attachments.Database = v
	}
	if v := os.Getenv("MAILDECODE_ALLOW"); v != "" {
		c.Attachments.Allow = splitList(v)
	}
	if v := os.Getenv("MAILDECODE_DENY"); v != "" {
		c.Attachments.Deny = splitList(v)
	}
	if v := os.Getenv("MAILDECODE_SAVE"); v != "" {
		if save, err := strconv.ParseBool(v); err == nil {
			c.Attachments.Save = save
		}
	}

	if v := os.Getenv("MAILDECODE_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("MAILDECODE_MAX_MESSAGE_SIZE"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Server.MaxMessageSize = size
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
}
