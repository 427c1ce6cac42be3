// Package storage defines the key-value store behind the journal, streak,
// and resume-session features. The store is an injected capability: every
// consumer depends on the Store interface, never on a concrete backend, so
// tests run against the in-memory driver and persistence failures can be
// simulated.
package storage

import "context"

// Well-known keys. Values are strings; structured values are JSON-encoded.
const (
	// KeyStreakCount holds the streak counter, an integer as a string.
	KeyStreakCount = "streakCount"

	// KeyLastActiveDate holds the date of the last sent question, YYYY-MM-DD.
	KeyLastActiveDate = "lastActiveDate"

	// KeyLastSession holds the JSON {bookId, question, bookTitle} of the
	// most recent question, powering the resume banner.
	KeyLastSession = "lastSession"

	// KeyJournal holds the JSON array of saved journal entries.
	KeyJournal = "journal"
)

// Store persists string values under string keys. Each call is independently
// fallible; callers of the journal and streak features swallow failures and
// degrade to defaults rather than interrupting chat.
type Store interface {
	// Get returns the value for key, or a NotFoundError if the key has
	// never been set.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Close releases any resources held by the store.
	Close() error
}
