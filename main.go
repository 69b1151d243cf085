package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/adee/portfolio/internal/config"
	"github.com/adee/portfolio/internal/content"
	"github.com/adee/portfolio/internal/locale"
	"github.com/adee/portfolio/internal/logging"
	"github.com/adee/portfolio/internal/metrics"
	"github.com/adee/portfolio/internal/server"
	"github.com/adee/portfolio/internal/store"
	"github.com/adee/portfolio/internal/timeline"
)

// Set by the linker.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const sheetTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("portfolio", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a YAML config file")
	flags.String("host", "", "listen host")
	flags.Int("port", 8080, "listen port")
	flags.String("mode", "release", "gin mode (debug, release, test)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("db", "portfolio.db", "sqlite database path")
	flags.String("events", "", "timeline events file (.yaml or .csv)")
	flags.String("content", "", "site content file (.yaml)")
	flags.String("locale", locale.Default, "locale tag")
	showVersion := flags.Bool("version", false, "print version and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}
	if *showVersion {
		fmt.Printf("portfolio %s (%s, %s)\n", version, commit, date)
		return nil
	}

	// godotenv does not override variables that are already set.
	_ = godotenv.Load()

	loader := config.NewLoader()
	if *configFile != "" {
		loader.SetConfigFile(*configFile)
	}
	loader.BindFlags(flags)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	log := logging.Component("main")
	log.Info().Str("version", version).Str("commit", commit).Msg("starting portfolio")
	metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	strs, err := locale.Load(cfg.Locale)
	if err != nil {
		return err
	}
	if strs.Tag != cfg.Locale {
		log.Warn().Str("locale", cfg.Locale).Str("using", strs.Tag).Msg("unknown locale")
	}
	site, err := content.LoadSite(cfg.Content.File)
	if err != nil {
		return err
	}
	events, err := loadEvents(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().Int("events", len(events)).Msg("timeline events loaded")

	st, err := store.Open(ctx, store.Config{
		Path: cfg.Database.Path,
		Salt: cfg.Privacy.IPSalt,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("error closing store")
		}
	}()

	deps := server.Deps{
		Config:  cfg,
		Strings: strs,
		Site:    site,
		Events:  events,
		Store:   st,
		Logger:  logging.Component("server"),
	}
	if cfg.SMTP.Configured() {
		deps.Mailer = server.NewSMTPMailer(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP credentials not set; contact messages are stored but not emailed")
	}
	if cfg.Google.APIKey != "" && cfg.Google.PhotosFolderID != "" {
		deps.Photos = content.NewDriveClient(cfg.Google.APIKey)
	}

	srv, err := server.New(deps)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// loadEvents reads the timeline from the configured sheet or file. A sheet that
// cannot be fetched falls back to the embedded events so the site still starts.
func loadEvents(ctx context.Context, cfg *config.Config) ([]timeline.Event, error) {
	log := logging.Component("content")

	if cfg.Timeline.SheetID != "" {
		ctx, cancel := context.WithTimeout(ctx, sheetTimeout)
		defer cancel()
		events, err := content.NewSheetsClient(cfg.Google.APIKey).FetchEvents(ctx, cfg.Timeline.SheetID, cfg.Timeline.SheetRange)
		if err == nil {
			return events, nil
		}
		log.Error().Err(err).Str("sheet_id", cfg.Timeline.SheetID).Msg("error fetching timeline sheet; using embedded events")
		return content.DefaultEvents()
	}
	if cfg.Timeline.EventsFile != "" {
		return content.LoadEvents(cfg.Timeline.EventsFile)
	}
	return content.DefaultEvents()
}
