package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adee/portfolio/internal/config"
	"github.com/adee/portfolio/internal/metrics"
	"github.com/adee/portfolio/internal/store"
)

const smtpTimeout = 30 * time.Second

// Mailer delivers a contact message to the site owner.
type Mailer interface {
	Send(ctx context.Context, m store.Message) error
}

// SMTPMailer sends contact messages through an SMTP relay with plain auth.
type SMTPMailer struct {
	cfg config.SMTPConfig
	// sendMail is smtp.SendMail, replaceable in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, sendMail: smtp.SendMail}
}

// Send gives up when ctx is done or after smtpTimeout. smtp.SendMail has no
// deadline of its own, so a relay that hangs leaves its goroutine behind until
// the connection drops.
func (m *SMTPMailer) Send(ctx context.Context, msg store.Message) error {
	if !m.cfg.Configured() {
		return errors.New("SMTP credentials not configured")
	}
	to := m.cfg.To
	if to == "" {
		to = m.cfg.User
	}

	ctx, cancel := context.WithTimeout(ctx, smtpTimeout)
	defer cancel()

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	body := composeEmail(m.cfg.User, to, msg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.sendMail(addr, auth, m.cfg.User, []string{to}, body)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error sending email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("error sending email: %w", ctx.Err())
	}
}

// headerSafe strips line breaks so user input cannot add mail headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func composeEmail(from, to string, msg store.Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(msg.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Body)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + headerSafe(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

func (s *Server) setupContactRoutes(r *gin.Engine) {
	r.GET("/contact", s.page("contact.html", s.strings.Contact.Title))
	r.GET("/contact-form", func(c *gin.Context) {
		s.render(c, http.StatusOK, "contact-form.html", nil)
	})
	r.POST("/contact", s.handleContact)
}

// handleContact stores the submission, then emails it when a mailer is set.
// The reply is an HTMX fragment either way.
func (s *Server) handleContact(c *gin.Context) {
	name := c.PostForm("fullName")
	email := c.PostForm("email")
	body := c.PostForm("message")
	ctx := c.Request.Context()

	msg, err := s.store.SaveMessage(ctx, name, email, body, c.ClientIP())
	if errors.Is(err, store.ErrInvalidMessage) {
		metrics.ContactMessagesTotal.WithLabelValues("invalid").Inc()
		s.render(c, http.StatusOK, "contact-error.html", gin.H{"error": s.strings.Contact.MissingFields})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("error saving contact message")
		metrics.ContactMessagesTotal.WithLabelValues("failed").Inc()
		s.render(c, http.StatusOK, "contact-error.html", gin.H{"error": s.strings.Contact.Error})
		return
	}

	if s.mailer != nil {
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.Error().Err(err).Str("message_id", msg.ID).Msg("error sending contact email")
			metrics.ContactMessagesTotal.WithLabelValues("failed").Inc()
			s.render(c, http.StatusOK, "contact-error.html", gin.H{"error": s.strings.Contact.Error})
			return
		}
		if err := s.store.MarkDelivered(ctx, msg.ID); err != nil {
			s.log.Warn().Err(err).Str("message_id", msg.ID).Msg("error marking message delivered")
		}
	}

	s.log.Info().Str("message_id", msg.ID).Bool("emailed", s.mailer != nil).Msg("contact message received")
	metrics.ContactMessagesTotal.WithLabelValues("accepted").Inc()
	s.render(c, http.StatusOK, "contact-success.html", gin.H{"success": s.strings.Contact.Success})
}
