package conversation

import (
	"errors"
	"sync"
)

// ErrBookMessageOpen is returned by BeginBook while another book message is
// still streaming. Sends are serialized: the UI must close or fail the open
// message before starting the next turn.
var ErrBookMessageOpen = errors.New("a book message is already open")

// Transcript is the ordered list of chat messages for one session. At most
// one book message is open for appending at a time; all earlier messages are
// frozen. Every mutation is an atomic read-compute-write under the mutex, so
// the transcript stays correct when deltas are applied from a goroutine
// other than the UI loop.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
	openID   string
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// AppendUser appends a complete user message and returns it.
func (t *Transcript) AppendUser(text string) Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg := newMessage(RoleUser, text)
	t.messages = append(t.messages, msg)
	return msg
}

// BeginBook appends a new empty book message, marks it open for appending,
// and returns it. Fails with ErrBookMessageOpen if a previous book message
// has not been closed yet.
func (t *Transcript) BeginBook() (Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.openID != "" {
		return Message{}, ErrBookMessageOpen
	}

	msg := newMessage(RoleBook, "")
	t.messages = append(t.messages, msg)
	t.openID = msg.ID
	return msg, nil
}

// AppendDelta concatenates delta onto the open book message with the given
// id. It reports whether the delta was applied: an unknown or already-closed
// id is a silent no-op, which makes late deltas harmless after the UI has
// moved on.
func (t *Transcript) AppendDelta(id, delta string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id == "" || id != t.openID {
		return false
	}

	for i := range t.messages {
		if t.messages[i].ID == id {
			t.messages[i].Content += delta
			return true
		}
	}
	return false
}

// CloseBook freezes the open book message. Closing an id that is not open is
// a no-op.
func (t *Transcript) CloseBook(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id == t.openID {
		t.openID = ""
	}
}

// FailBook closes the open book message and replaces its content with
// exactly FallbackAnswer, discarding any partially streamed text. The caller
// gets a complete, non-empty message to show instead of a half answer.
func (t *Transcript) FailBook(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id == "" || id != t.openID {
		return
	}
	t.openID = ""

	for i := range t.messages {
		if t.messages[i].ID == id {
			t.messages[i].Content = FallbackAnswer
			return
		}
	}
}

// Open reports whether a book message is currently streaming.
func (t *Transcript) Open() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.openID != ""
}

// Messages returns an ordered snapshot of the transcript.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
