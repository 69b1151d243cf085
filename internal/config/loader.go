package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ADEE_SERVER_PORT.
const EnvPrefix = "ADEE"

// Loader handles configuration loading with Viper.
type Loader struct {
	v          *viper.Viper
	configFile string
	flags      *pflag.FlagSet
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// BindFlags makes changed flags override every other source. Only the flags
// named in flagKeys are read.
func (l *Loader) BindFlags(fs *pflag.FlagSet) {
	l.flags = fs
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"host":       "server.host",
	"port":       "server.port",
	"mode":       "server.mode",
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"db":         "database.path",
	"events":     "timeline.events_file",
	"content":    "content.file",
	"locale":     "locale",
}

// envAliases lets the plain variable names from earlier deployments keep working.
var envAliases = map[string][]string{
	"server.port":       {"PORT"},
	"smtp.host":         {"SMTP_HOST"},
	"smtp.port":         {"SMTP_PORT"},
	"smtp.user":         {"SMTP_USER"},
	"smtp.pass":         {"SMTP_PASS"},
	"smtp.to":           {"TO_EMAIL"},
	"admin.username":    {"ADMIN_USERNAME"},
	"admin.password":    {"ADMIN_PASSWORD"},
	"google.api_key":    {"GOOGLE_API_KEY"},
	"timeline.sheet_id": {"SHEET_ID"},
	"privacy.ip_salt":   {"IP_SALT"},
}

// Load loads configuration with proper precedence:
// defaults < config file < env vars < CLI flags
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.setupViper(cfg)

	if err := l.loadConfigFile(); err != nil {
		return nil, err
	}

	if l.flags != nil {
		for name, key := range flagKeys {
			if f := l.flags.Lookup(name); f != nil {
				if err := l.v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) setupViper(cfg *Config) {
	v := l.v

	v.SetConfigName("portfolio")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v, cfg)

	// Explicit binding so Unmarshal sees env values for nested keys.
	for _, key := range v.AllKeys() {
		names := []string{key, EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		names = append(names, envAliases[key]...)
		_ = v.BindEnv(names...)
	}
	v.AutomaticEnv()
}

// loadConfigFile reads the config file. A missing default file is fine; a
// missing explicit file is not.
func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}
	err := l.v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if l.configFile == "" && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to load config file: %w", err)
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.mode", cfg.Server.Mode)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("database.path", cfg.Database.Path)

	v.SetDefault("timeline.events_file", cfg.Timeline.EventsFile)
	v.SetDefault("timeline.sheet_id", cfg.Timeline.SheetID)
	v.SetDefault("timeline.sheet_range", cfg.Timeline.SheetRange)
	v.SetDefault("timeline.order", cfg.Timeline.Order)
	v.SetDefault("timeline.display_mode", cfg.Timeline.DisplayMode)

	v.SetDefault("google.api_key", cfg.Google.APIKey)
	v.SetDefault("google.photos_folder_id", cfg.Google.PhotosFolderID)

	v.SetDefault("content.file", cfg.Content.File)

	v.SetDefault("smtp.host", cfg.SMTP.Host)
	v.SetDefault("smtp.port", cfg.SMTP.Port)
	v.SetDefault("smtp.user", cfg.SMTP.User)
	v.SetDefault("smtp.pass", cfg.SMTP.Pass)
	v.SetDefault("smtp.to", cfg.SMTP.To)

	v.SetDefault("admin.username", cfg.Admin.Username)
	v.SetDefault("admin.password", cfg.Admin.Password)

	v.SetDefault("session.cookie", cfg.Session.Cookie)
	v.SetDefault("session.idle_ttl", cfg.Session.IdleTTL)

	v.SetDefault("privacy.visitor_retention", cfg.Privacy.VisitorRetention)
	v.SetDefault("privacy.ip_salt", cfg.Privacy.IPSalt)

	v.SetDefault("locale", cfg.Locale)
}
