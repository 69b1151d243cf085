package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	adminCookie      = "admin_token"
	adminCookieAge   = 24 * time.Hour
	visitorPageLimit = 200
	messagePageLimit = 100
	trackTimeout     = 5 * time.Second
)

// untrackedPrefixes are never recorded as visits.
var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/favicon",
	"/privacy",
	"/metrics",
	"/healthz",
	"/api/",
}

// visitorTracking records page views with a hashed IP. Do Not Track and HTMX
// fragment requests are skipped.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" || c.GetHeader("HX-Request") == "true" {
			c.Next()
			return
		}
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
			defer cancel()
			if err := s.store.RecordVisit(ctx, ip, ua, path); err != nil {
				s.log.Error().Err(err).Msg("error recording visitor")
			}
		}()
		c.Next()
	}
}

func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// checkCredentials compares in constant time. An empty configured password
// disables login.
func (s *Server) checkCredentials(username, password string) bool {
	want := s.cfg.Admin
	if want.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(want.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(want.Password)) == 1
	return userOK && passOK
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	if s.cfg.Admin.Password == "" {
		s.log.Warn().Msg("admin.password is not set; admin login is disabled")
	}

	r.GET("/admin/login", func(c *gin.Context) {
		s.render(c, http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})
	r.POST("/admin/login", s.handleAdminLogin)
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		s.log.Info().Str("from", s.store.HashIP(c.ClientIP())).Msg("admin logout")
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin", s.adminAuth())
	admin.GET("/dashboard", s.handleAdminDashboard)
	admin.GET("/api/stats", s.handleAdminStats)
	admin.GET("/visitors", s.handleAdminVisitors)
	admin.GET("/messages", s.handleAdminMessages)
	admin.GET("/export/stats", s.handleAdminExport)
	admin.POST("/privacy/cleanup", s.handleAdminCleanup)
}

func (s *Server) handleAdminLogin(c *gin.Context) {
	from := s.store.HashIP(c.ClientIP())
	if !s.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
		s.log.Warn().Str("from", from).Msg("failed admin login attempt")
		s.render(c, http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(adminCookie, s.adminToken, int(adminCookieAge.Seconds()), "/admin", "", false, true)
	s.log.Info().Str("from", from).Msg("admin login successful")
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (s *Server) adminError(c *gin.Context, msg string, err error) {
	s.log.Error().Err(err).Msg(msg)
	s.render(c, http.StatusInternalServerError, "admin-error.html", gin.H{"error": msg})
}

func (s *Server) handleAdminDashboard(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		s.adminError(c, "Failed to load statistics", err)
		return
	}
	s.render(c, http.StatusOK, "admin-dashboard.html", gin.H{
		"title":    "Dashboard",
		"stats":    stats,
		"sessions": s.sessions.Len(),
		"events":   len(s.events),
	})
}

func (s *Server) handleAdminStats(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("error loading admin stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleAdminVisitors(c *gin.Context) {
	visitors, err := s.store.RecentVisitors(c.Request.Context(), visitorPageLimit)
	if err != nil {
		s.adminError(c, "Failed to load visitors", err)
		return
	}
	s.render(c, http.StatusOK, "admin-visitors.html", gin.H{
		"title":    "Visitors",
		"visitors": visitors,
	})
}

func (s *Server) handleAdminMessages(c *gin.Context) {
	messages, err := s.store.Messages(c.Request.Context(), messagePageLimit)
	if err != nil {
		s.adminError(c, "Failed to load messages", err)
		return
	}
	s.render(c, http.StatusOK, "admin-messages.html", gin.H{
		"title":    "Messages",
		"messages": messages,
	})
}

func (s *Server) handleAdminExport(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("error exporting admin stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	s.log.Info().Str("by", s.store.HashIP(c.ClientIP())).Msg("admin stats exported")
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleAdminCleanup(c *gin.Context) {
	n := s.cleanupVisitors(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"removed": n})
}
