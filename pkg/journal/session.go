package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/storylinehq/storyline/pkg/storage"
)

// Session is the most recently sent question, shown in the resume banner.
// The JSON field names are part of the persisted contract.
type Session struct {
	BookID    string `json:"bookId"`
	Question  string `json:"question"`
	BookTitle string `json:"bookTitle"`
}

// Sessions reads and writes the lastSession key.
type Sessions struct {
	store  storage.Store
	logger *slog.Logger
}

// NewSessions creates a Sessions on the given store.
func NewSessions(store storage.Store, logger *slog.Logger) *Sessions {
	return &Sessions{store: store, logger: logger}
}

// Last returns the most recent session, or ok=false when none is recorded
// or the value is unreadable.
func (s *Sessions) Last(ctx context.Context) (Session, bool) {
	raw, err := s.store.Get(ctx, storage.KeyLastSession)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Warn("reading last session", "err", err)
		}
		return Session{}, false
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Warn("last session value is not valid JSON", "err", err)
		return Session{}, false
	}

	return session, true
}

// Remember records the session of the question just sent.
func (s *Sessions) Remember(ctx context.Context, session Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := s.store.Set(ctx, storage.KeyLastSession, string(raw)); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	return nil
}

// isNotFound reports whether err is a storage.NotFoundError.
func isNotFound(err error) bool {
	var notFound storage.NotFoundError
	return errors.As(err, &notFound)
}
