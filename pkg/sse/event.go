// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// parser for consuming the book service's streamed answers. It reassembles
// blank-line-delimited frames from arbitrarily chunked reads and exposes the
// parsed events without ever dropping partial data across chunk boundaries.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// ChunkEvent is the event type carrying an incremental answer delta.
// Per the wire contract an absent "event:" line means the same thing.
const ChunkEvent = "chunk"

// Event represents a single parsed SSE event, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default type; for the book service that is
	// equivalent to "chunk". When a frame carries multiple "event:" lines
	// the last one wins.
	Type string

	// Data is the concatenated contents of all "data:" lines for this event,
	// joined with "\n" (per the SSE spec, multiple data fields are joined
	// with a single newline).
	Data string

	// ID is the last event ID from the "id:" field, if present.
	ID string
}

// IsChunk reports whether the event carries an answer delta: either no
// explicit type or the literal "chunk". Every other type is reserved for
// future protocol extensions and is skipped by consumers.
func (e *Event) IsChunk() bool {
	return e.Type == "" || e.Type == ChunkEvent
}
