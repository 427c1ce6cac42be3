package sse

import "io"

// readChunkSize is the buffer size for each read from the source. Answer
// deltas are small, so a modest buffer keeps latency low without churning
// allocations.
const readChunkSize = 4 * 1024

// Reader pulls parsed SSE events out of a streamed response body. It reads
// the source in chunks, feeds them through a Parser, and hands back events
// one at a time. Decoded frames are byte-faithful to the source regardless
// of how the transport chunked the stream.
type Reader struct {
	src     io.Reader
	parser  Parser
	pending []Event
	buf     []byte
	done    bool
}

// NewReader returns a Reader that parses SSE events from src.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		src: src,
		buf: make([]byte, readChunkSize),
	}
}

// Next returns the next parsed SSE event. It blocks until a complete frame
// is available (terminated by a blank line in the stream). Next returns
// nil, nil once the source is exhausted; a frame left unterminated at
// end-of-stream is still yielded. Read errors from the source are returned
// as-is.
func (r *Reader) Next() (*Event, error) {
	for len(r.pending) == 0 {
		if r.done {
			return nil, nil
		}

		n, err := r.src.Read(r.buf)
		if n > 0 {
			r.pending = append(r.pending, r.parser.Feed(r.buf[:n])...)
		}

		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			r.done = true
			r.pending = append(r.pending, r.parser.Close()...)
		}
	}

	ev := r.pending[0]
	r.pending = r.pending[1:]
	return &ev, nil
}
