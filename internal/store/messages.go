package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidMessage is returned for messages missing a name, email or body.
var ErrInvalidMessage = errors.New("invalid message")

// Message is a contact form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	HashedIP  string    `json:"hashed_ip,omitempty"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveMessage stores a submission and returns it with its id and timestamp set.
func (s *Store) SaveMessage(ctx context.Context, name, email, body, ip string) (Message, error) {
	m := Message{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Body:      strings.TrimSpace(body),
		CreatedAt: s.clock.Now().UTC(),
	}
	if m.Name == "" || m.Email == "" || m.Body == "" {
		return Message{}, ErrInvalidMessage
	}
	if ip != "" {
		m.HashedIP = s.HashIP(ip)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, body, hashed_ip, delivered, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, m.ID, m.Name, m.Email, m.Body, m.HashedIP, formatTime(m.CreatedAt))
	if err != nil {
		return Message{}, fmt.Errorf("failed to save message: %w", err)
	}
	return m, nil
}

// MarkDelivered records that a message was emailed.
func (s *Store) MarkDelivered(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET delivered = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Messages returns the latest submissions, newest first.
func (s *Store) Messages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, body, COALESCE(hashed_ip, ''), delivered, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var m Message
		var delivered int
		var created string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.HashedIP, &delivered, &created); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Delivered = delivered != 0
		m.CreatedAt = parseTime(created)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
