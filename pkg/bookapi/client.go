// Package bookapi provides the HTTP client for the book service: the
// read-only catalog endpoint and the streamed question-answering endpoint.
package bookapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/storylinehq/storyline/pkg/sse"
)

// errBodyLimit caps how much of an error response body is kept for the
// StatusError message.
const errBodyLimit = 512

// Client talks to the book service.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the service at baseURL (scheme + host + port).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc: &http.Client{
			// Answer generation can be slow; the per-question timeout
			// covers the whole stream.
			Timeout: 5 * time.Minute,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Books fetches the catalog. The result may legitimately be empty; callers
// must tolerate an empty catalog without failing.
func (c *Client) Books(ctx context.Context) ([]Book, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/books", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return nil, err
	}

	var books []Book
	if err := json.NewDecoder(resp.Body).Decode(&books); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	c.logger.Debug("fetched catalog", "books", len(books))
	return books, nil
}

// Ask sends a question about a book and returns the streamed answer. The
// caller owns the returned stream and must Close it.
func (c *Client) Ask(ctx context.Context, bookID, question string) (*AnswerStream, error) {
	body, err := json.Marshal(askRequest{BookID: bookID, Question: question})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	c.logger.Debug("asking question", "book", bookID, "len", len(question))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending question: %w", err)
	}

	if err := statusError(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return &AnswerStream{
		body:   resp.Body,
		reader: sse.NewReader(resp.Body),
		logger: c.logger,
	}, nil
}

// statusError converts a non-2xx response into a *StatusError, draining a
// bounded prefix of the body for the message.
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
