// Package conversation owns the ordered chat transcript: user questions and
// the book messages that grow in place while an answer streams in.
package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Message roles. A transcript only ever contains these two.
const (
	RoleUser = "user"
	RoleBook = "book"
)

// FallbackAnswer replaces the content of a book message whose stream failed,
// so a turn never ends with an empty bubble.
const FallbackAnswer = "Sorry, something went wrong while fetching the answer."

// Message is one entry in the transcript. A user message is complete at
// creation; a book message starts empty, grows by deltas while its stream is
// open, and is immutable once closed.
type Message struct {
	ID        string
	Role      string
	Content   string
	Timestamp time.Time
}

func newMessage(role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}
