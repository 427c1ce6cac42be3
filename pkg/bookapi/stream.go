package bookapi

import (
	"io"
	"log/slog"
	"strings"

	"github.com/storylinehq/storyline/pkg/sse"
)

// AnswerStream is one in-flight answer. Deltas are pulled with Next in
// network arrival order; the stream performs no reordering or deduplication.
type AnswerStream struct {
	body   io.Closer
	reader *sse.Reader
	text   strings.Builder
	logger *slog.Logger
}

// Next returns the next answer delta. Frames whose event type is neither
// absent nor "chunk" are parsed but skipped; they are reserved for future
// protocol extensions. Next returns io.EOF once the stream ends, or the
// underlying transport error.
func (s *AnswerStream) Next() (string, error) {
	for {
		ev, err := s.reader.Next()
		if err != nil {
			return "", err
		}
		if ev == nil {
			return "", io.EOF
		}

		if !ev.IsChunk() {
			s.logger.Debug("skipping non-chunk event", "type", ev.Type)
			continue
		}

		s.text.WriteString(ev.Data)
		return ev.Data, nil
	}
}

// Text returns everything read from the stream so far. After Next has
// returned io.EOF this is the complete answer.
func (s *AnswerStream) Text() string {
	return s.text.String()
}

// Close releases the underlying response body. Safe to call at any point;
// deltas still in flight are discarded.
func (s *AnswerStream) Close() error {
	return s.body.Close()
}
