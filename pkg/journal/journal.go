// Package journal keeps the locally persisted reading state: saved
// question/answer pairs, the daily streak counter, and the last session used
// by the resume banner. Everything sits on the injected storage.Store; a
// store failure degrades the feature to its default and never interrupts
// chat.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/storylinehq/storyline/pkg/storage"
)

// Entry is one saved question/answer pair. The JSON field names are part of
// the persisted contract and must not change.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"ts"`
	BookID    string    `json:"bookId"`
	Question  string    `json:"q"`
	Answer    string    `json:"a"`
}

// Journal reads and writes the saved-answers list. Append-only from the
// user's perspective; entries are deletable by id.
type Journal struct {
	store  storage.Store
	logger *slog.Logger
}

// New creates a Journal on the given store.
func New(store storage.Store, logger *slog.Logger) *Journal {
	return &Journal{store: store, logger: logger}
}

// Entries returns all saved entries, newest last. A missing key or an
// unreadable value degrades to an empty journal.
func (j *Journal) Entries(ctx context.Context) []Entry {
	raw, err := j.store.Get(ctx, storage.KeyJournal)
	if err != nil {
		if !isNotFound(err) {
			j.logger.Warn("reading journal", "err", err)
		}
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		j.logger.Warn("journal value is not valid JSON, starting empty", "err", err)
		return nil
	}

	return entries
}

// Save appends a new entry and returns it.
func (j *Journal) Save(ctx context.Context, bookID, question, answer string) (Entry, error) {
	entry := Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		BookID:    bookID,
		Question:  question,
		Answer:    answer,
	}

	entries := append(j.Entries(ctx), entry)
	if err := j.write(ctx, entries); err != nil {
		return Entry{}, err
	}

	return entry, nil
}

// Delete removes the entry with the given id. Deleting an unknown id is a
// no-op.
func (j *Journal) Delete(ctx context.Context, id string) error {
	entries := j.Entries(ctx)

	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	return j.write(ctx, kept)
}

// Get returns the entry with the given id.
func (j *Journal) Get(ctx context.Context, id string) (Entry, bool) {
	for _, e := range j.Entries(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func (j *Journal) write(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding journal: %w", err)
	}

	if err := j.store.Set(ctx, storage.KeyJournal, string(raw)); err != nil {
		return fmt.Errorf("writing journal: %w", err)
	}

	return nil
}
