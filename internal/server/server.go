// Package server is the HTTP surface of the site: server-rendered pages, HTMX
// fragments for the interactive timeline, a small JSON API and the admin area.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/adee/portfolio/internal/config"
	"github.com/adee/portfolio/internal/content"
	"github.com/adee/portfolio/internal/locale"
	"github.com/adee/portfolio/internal/logging"
	"github.com/adee/portfolio/internal/metrics"
	"github.com/adee/portfolio/internal/session"
	"github.com/adee/portfolio/internal/store"
	"github.com/adee/portfolio/internal/timeline"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	sessionSweepInterval = time.Minute
	retentionInterval    = 24 * time.Hour
	shutdownTimeout      = 10 * time.Second
)

// PhotoLister lists gallery image URLs in a folder.
type PhotoLister interface {
	ListImages(ctx context.Context, folderID string) ([]string, error)
}

// Deps are the collaborators the server is built from.
type Deps struct {
	Config  *config.Config
	Strings *locale.Strings
	Site    *content.Site
	Events  []timeline.Event
	Store   *store.Store
	// Mailer delivers contact messages. Nil stores them without sending.
	Mailer Mailer
	// Photos backs the gallery. Nil hides it.
	Photos PhotoLister
	Clock  clockwork.Clock
	Logger zerolog.Logger
}

func (d *Deps) Validate() error {
	if d.Config == nil {
		return errors.New("config is required")
	}
	if d.Strings == nil {
		return errors.New("locale strings are required")
	}
	if d.Site == nil {
		return errors.New("site content is required")
	}
	if d.Store == nil {
		return errors.New("store is required")
	}
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	return nil
}

type Server struct {
	cfg      *config.Config
	strings  *locale.Strings
	site     *content.Site
	events   []timeline.Event
	store    *store.Store
	mailer   Mailer
	photos   *photoCache
	sessions *session.Store
	clock    clockwork.Clock
	log      zerolog.Logger
	diag     timeline.Diagnostics

	adminToken string
	engine     *gin.Engine

	// bg tracks fire-and-forget work such as visitor recording.
	bg sync.WaitGroup
}

// New builds the server and its routes.
func New(d Deps) (*Server, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     d.Config,
		strings: d.Strings,
		site:    d.Site,
		events:  d.Events,
		store:   d.Store,
		mailer:  d.Mailer,
		clock:   d.Clock,
		log:     d.Logger,
	}
	// Bad events are warned about once here; per-render layouts count them and
	// log at debug level.
	tlog := s.log.With().Str("component", "timeline").Logger()
	timeline.Resolve(d.Events, timeline.LogDiagnostics(tlog))
	s.diag = timeline.MultiDiagnostics(metrics.Diagnostics{}, timeline.LogDiagnosticsAt(tlog, zerolog.DebugLevel))

	if d.Photos != nil && d.Config.Google.PhotosFolderID != "" {
		s.photos = newPhotoCache(d.Photos, d.Config.Google.PhotosFolderID, d.Clock, photoCacheTTL)
	}

	sessions, err := session.New(session.Config{
		Clock:   d.Clock,
		IdleTTL: d.Config.Session.IdleTTL,
		NewView: s.newView,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	s.sessions = sessions

	s.adminToken, err = store.RandomToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin token: %w", err)
	}

	if err := s.setupEngine(); err != nil {
		return nil, err
	}
	return s, nil
}

// newView starts a visitor on the configured layout with no filter.
func (s *Server) newView() *timeline.View {
	opts := s.cfg.LayoutOptions()
	opts.Diagnostics = s.diag
	return timeline.NewView(s.events, opts)
}

func (s *Server) setupEngine() error {
	gin.SetMode(s.cfg.Server.Mode)

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(s.log))
	r.Use(metrics.Middleware)
	r.Use(s.visitorTracking())
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", http.FS(static))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.handleHealth)

	s.setupPageRoutes(r)
	s.setupTimelineRoutes(r)
	s.setupContactRoutes(r)
	s.setupAdminRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		s.render(c, http.StatusNotFound, "error.html", gin.H{
			"title":   s.strings.Errors.NotFound,
			"message": s.strings.Errors.NotFound,
		})
	})

	s.engine = r
	return nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on the configured address until ctx is done, then shuts down
// gracefully. Session eviction and visitor retention run alongside.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sessions.Run(ctx, sessionSweepInterval, func(live int) {
		metrics.ActiveSessions.Set(float64(live))
	})
	go s.runRetention(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.bg.Wait()
	return nil
}

// runRetention deletes old visitor records now and then once a day.
func (s *Server) runRetention(ctx context.Context) {
	s.cleanupVisitors(ctx)

	ticker := s.clock.NewTicker(retentionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.cleanupVisitors(ctx)
		}
	}
}

func (s *Server) cleanupVisitors(ctx context.Context) int64 {
	n, err := s.store.CleanupVisitors(ctx, s.cfg.Privacy.VisitorRetention)
	if err != nil {
		s.log.Error().Err(err).Msg("visitor cleanup failed")
		return 0
	}
	if n > 0 {
		metrics.VisitorsCleanedTotal.Add(float64(n))
		s.log.Info().Int64("removed", n).Msg("privacy cleanup removed old visitor records")
	}
	return n
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.log.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// render executes a template with the data every page needs.
func (s *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["t"] = s.strings
	data["site"] = s.site
	data["path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}
