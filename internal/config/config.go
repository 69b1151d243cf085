// Package config holds the site configuration. It is loaded once at startup
// and treated as immutable afterwards.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/adee/portfolio/internal/timeline"
)

// Config is the complete site configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Timeline TimelineConfig `mapstructure:"timeline"`
	Google   GoogleConfig   `mapstructure:"google"`
	Content  ContentConfig  `mapstructure:"content"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Session  SessionConfig  `mapstructure:"session"`
	Privacy  PrivacyConfig  `mapstructure:"privacy"`
	Locale   string         `mapstructure:"locale"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode string `mapstructure:"mode"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// TimelineConfig says where career events come from and how they are laid out.
// A SheetID takes precedence over EventsFile; with neither, the embedded
// events are used.
type TimelineConfig struct {
	EventsFile  string `mapstructure:"events_file"`
	SheetID     string `mapstructure:"sheet_id"`
	SheetRange  string `mapstructure:"sheet_range"`
	Order       string `mapstructure:"order"`
	DisplayMode string `mapstructure:"display_mode"`
}

type GoogleConfig struct {
	APIKey         string `mapstructure:"api_key"`
	PhotosFolderID string `mapstructure:"photos_folder_id"`
}

type ContentConfig struct {
	// File is a YAML site-content file; empty uses the embedded content.
	File string `mapstructure:"file"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	To   string `mapstructure:"to"`
}

// Configured reports whether credentials are present.
func (s SMTPConfig) Configured() bool {
	return s.User != "" && s.Pass != ""
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SessionConfig struct {
	Cookie  string        `mapstructure:"cookie"`
	IdleTTL time.Duration `mapstructure:"idle_ttl"`
}

type PrivacyConfig struct {
	VisitorRetention time.Duration `mapstructure:"visitor_retention"`
	// IPSalt is mixed into visitor IP hashes. Empty picks a random salt per
	// process, so unique-visitor counts reset on restart.
	IPSalt string `mapstructure:"ip_salt"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "",
			Port: 8080,
			Mode: "release",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Database: DatabaseConfig{
			Path: "portfolio.db",
		},
		Timeline: TimelineConfig{
			SheetRange:  "Sheet1!A:Z",
			Order:       "desc",
			DisplayMode: string(timeline.DisplayDefault),
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
		},
		Admin: AdminConfig{
			Username: "admin",
		},
		Session: SessionConfig{
			Cookie:  "adee_session",
			IdleTTL: 30 * time.Minute,
		},
		Privacy: PrivacyConfig{
			VisitorRetention: 365 * 24 * time.Hour,
		},
		Locale: "en-US",
	}
}

// Validate checks the configuration for values the site cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if _, err := timeline.ParseDirection(c.Timeline.Order); err != nil {
		return fmt.Errorf("timeline.order: %w", err)
	}
	if _, err := timeline.ParseDisplayMode(c.Timeline.DisplayMode); err != nil {
		return fmt.Errorf("timeline.display_mode: %w", err)
	}
	if c.Timeline.SheetID != "" && c.Google.APIKey == "" {
		return errors.New("timeline.sheet_id requires google.api_key")
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("session.idle_ttl must be greater than 0")
	}
	if c.Session.Cookie == "" {
		return errors.New("session.cookie is required")
	}
	if c.Privacy.VisitorRetention <= 0 {
		return errors.New("privacy.visitor_retention must be greater than 0")
	}
	return nil
}

// LayoutOptions converts the timeline settings into engine options.
// Validate must have passed.
func (c *Config) LayoutOptions() timeline.Options {
	opts := timeline.DefaultOptions()
	opts.Direction, _ = timeline.ParseDirection(c.Timeline.Order)
	opts.DisplayMode, _ = timeline.ParseDisplayMode(c.Timeline.DisplayMode)
	return opts
}
