package bookapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/storylinehq/storyline/pkg/bookapi"
)

// sseServer returns an httptest server that answers POST /ask with the given
// pre-framed SSE payload, flushing after every frame to force chunked reads.
func sseServer(frames ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Expect(r.URL.Path).To(Equal("/ask"))
		Expect(r.Method).To(Equal(http.MethodPost))

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		flusher := w.(http.Flusher)
		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
	}))
}

var _ = Describe("Client", func() {
	Describe("Books", func() {
		It("fetches and decodes the catalog", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/books"))
				Expect(r.Method).To(Equal(http.MethodGet))

				w.Header().Set("Content-Type", "application/json")
				err := json.NewEncoder(w).Encode([]bookapi.Book{
					{ID: "b1", Title: "Moby-Dick", Author: "Herman Melville", Tagline: "Call me Ishmael."},
					{ID: "b2", Title: "Frankenstein", Author: "Mary Shelley"},
				})
				Expect(err).NotTo(HaveOccurred())
			}))
			defer server.Close()

			client := bookapi.New(server.URL)
			books, err := client.Books(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(books).To(HaveLen(2))
			Expect(books[0].ID).To(Equal("b1"))
			Expect(books[0].Title).To(Equal("Moby-Dick"))
			Expect(books[1].Author).To(Equal("Mary Shelley"))
		})

		It("returns an empty catalog without error", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "[]")
			}))
			defer server.Close()

			client := bookapi.New(server.URL)
			books, err := client.Books(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(books).To(BeEmpty())
		})

		It("returns a StatusError on a non-2xx response", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
			}))
			defer server.Close()

			client := bookapi.New(server.URL)
			_, err := client.Books(context.Background())

			var statusErr *bookapi.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.StatusCode).To(Equal(http.StatusServiceUnavailable))
			Expect(statusErr.Body).To(ContainSubstring("catalog unavailable"))
		})
	})

	Describe("Ask", func() {
		It("streams deltas in arrival order", func() {
			server := sseServer("data: Hello\n\n", "data: World\n\n")
			defer server.Close()

			client := bookapi.New(server.URL)
			stream, err := client.Ask(context.Background(), "b1", "What is chapter 1 about?")
			Expect(err).NotTo(HaveOccurred())
			defer stream.Close()

			delta, err := stream.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(Equal("Hello"))

			delta, err = stream.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(Equal("World"))

			_, err = stream.Next()
			Expect(err).To(MatchError(io.EOF))
			Expect(stream.Text()).To(Equal("HelloWorld"))
		})

		It("sends the book id and question as JSON", func() {
			var got struct {
				BookID   string `json:"bookId"`
				Question string `json:"question"`
			}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
				fmt.Fprint(w, "data: ok\n\n")
			}))
			defer server.Close()

			client := bookapi.New(server.URL)
			stream, err := client.Ask(context.Background(), "b7", "Why the whale?")
			Expect(err).NotTo(HaveOccurred())
			defer stream.Close()

			Expect(got.BookID).To(Equal("b7"))
			Expect(got.Question).To(Equal("Why the whale?"))
		})

		It("accepts explicit chunk events and joins multi-line data", func() {
			server := sseServer(
				"event: chunk\ndata: line one\ndata: line two\n\n",
				"data: tail\n\n",
			)
			defer server.Close()

			client := bookapi.New(server.URL)
			stream, err := client.Ask(context.Background(), "b1", "q")
			Expect(err).NotTo(HaveOccurred())
			defer stream.Close()

			delta, err := stream.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(Equal("line one\nline two"))

			delta, err = stream.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(Equal("tail"))

			_, err = stream.Next()
			Expect(err).To(MatchError(io.EOF))
		})

		It("skips frames with other event types", func() {
			server := sseServer(
				"event: ping\ndata: x\n\n",
				"data: real\n\n",
				"event: done\ndata: ignored\n\n",
			)
			defer server.Close()

			client := bookapi.New(server.URL)
			stream, err := client.Ask(context.Background(), "b1", "q")
			Expect(err).NotTo(HaveOccurred())
			defer stream.Close()

			delta, err := stream.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(delta).To(Equal("real"))

			_, err = stream.Next()
			Expect(err).To(MatchError(io.EOF))
			Expect(stream.Text()).To(Equal("real"))
		})

		It("returns a StatusError before any stream is opened", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "no such book", http.StatusNotFound)
			}))
			defer server.Close()

			client := bookapi.New(server.URL)
			_, err := client.Ask(context.Background(), "missing", "q")

			var statusErr *bookapi.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.StatusCode).To(Equal(http.StatusNotFound))
		})
	})
})
