package sse

import (
	"bytes"
	"strings"
)

// frameDelimiter separates SSE frames in the byte stream.
var frameDelimiter = []byte("\n\n")

// Parser is a push-style SSE frame parser. Bytes arrive via Feed in whatever
// chunks the transport produces; the parser buffers them and emits an Event
// for every complete frame (text preceding a "\n\n" delimiter), leaving any
// trailing partial frame buffered for the next call.
//
// The buffer is byte-oriented and the delimiter is pure ASCII, so a chunk
// boundary that splits a multi-byte UTF-8 sequence is harmless: the bytes
// stay in the buffer until the frame completes.
//
// The zero value is ready to use.
type Parser struct {
	buf []byte
}

// Feed appends p to the accumulation buffer and returns every event whose
// frame completed with this chunk, in arrival order. Frames with no data
// lines are dropped silently.
//
// Feeding a byte stream split at arbitrary boundaries (mid-frame, mid-line,
// or exactly on the delimiter) yields the same events as feeding it whole.
func (p *Parser) Feed(chunk []byte) []Event {
	p.buf = append(p.buf, chunk...)

	var events []Event
	for {
		i := bytes.Index(p.buf, frameDelimiter)
		if i < 0 {
			return events
		}

		frame := string(p.buf[:i])
		p.buf = p.buf[i+len(frameDelimiter):]

		if ev, ok := parseFrame(frame); ok {
			events = append(events, ev)
		}
	}
}

// Close flushes the buffer. If the stream ended without a trailing blank
// line, the in-progress frame is parsed and yielded; otherwise Close
// returns nothing. The parser must not be fed after Close.
func (p *Parser) Close() []Event {
	frame := string(p.buf)
	p.buf = nil

	if ev, ok := parseFrame(frame); ok {
		return []Event{ev}
	}
	return nil
}

// parseFrame parses one raw frame into an Event. It returns ok=false when
// the frame carries no data lines: such frames contribute no delta and are
// dropped by contract.
//
// Per the SSE spec, a line has the form "field:value" where a single space
// after the colon is optional and stripped if present. Comment lines (":"
// prefix), unknown fields, and lines without a recognized prefix are
// ignored, never an error.
func parseFrame(frame string) (Event, bool) {
	var (
		ev      Event
		hasData bool
		first   = true
	)

	for _, line := range strings.Split(frame, "\n") {
		// Tolerate CRLF framing from the transport.
		line = strings.TrimSuffix(line, "\r")

		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		field, value, cut := strings.Cut(line, ":")
		if cut {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			if first {
				first = false
			} else {
				// Multiple data fields are joined with "\n".
				ev.Data += "\n"
			}
			ev.Data += value
			hasData = true
		case "event":
			ev.Type = value
		case "id":
			ev.ID = value
		default:
			// "retry" and unknown fields are ignored per the SSE spec.
		}
	}

	return ev, hasData
}
