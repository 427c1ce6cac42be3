package chatcmder_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chatcmder "github.com/storylinehq/storyline/cmd/storyline/chat"
	"github.com/storylinehq/storyline/pkg/bookapi"
	"github.com/storylinehq/storyline/pkg/conversation"
)

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
	})

	It("has --api-target flag", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("api-target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("a"))
	})

	It("has --book flag", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("book")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("b"))
	})

	It("has --sqlite flag", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Flags().Lookup("sqlite")).NotTo(BeNil())
	})

	It("has --markdown flag", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Flags().Lookup("markdown")).NotTo(BeNil())
	})

	It("has --tui flag defaulting to off", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("tui")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("false"))
	})
})

var _ = Describe("Chat turn against a streaming server", func() {
	It("accumulates frame deltas into one book message", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/ask"))
			Expect(r.Method).To(Equal("POST"))

			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(http.StatusOK)
			flusher := w.(http.Flusher)

			for _, frame := range []string{"data: Hello\n\n", "data: World\n\n"} {
				fmt.Fprint(w, frame)
				flusher.Flush()
			}
		}))
		defer server.Close()

		client := bookapi.New(server.URL)
		transcript := conversation.New()

		transcript.AppendUser("hi")
		open, err := transcript.BeginBook()
		Expect(err).NotTo(HaveOccurred())

		stream, err := client.Ask(context.Background(), "b1", "hi")
		Expect(err).NotTo(HaveOccurred())
		defer stream.Close()

		for {
			delta, err := stream.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			Expect(err).NotTo(HaveOccurred())
			transcript.AppendDelta(open.ID, delta)
		}
		transcript.CloseBook(open.ID)

		messages := transcript.Messages()
		Expect(messages).To(HaveLen(2))
		Expect(messages[1].Role).To(Equal(conversation.RoleBook))
		Expect(messages[1].Content).To(Equal("HelloWorld"))
	})

	It("replaces a failed turn with the fallback answer", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := bookapi.New(server.URL)
		transcript := conversation.New()

		transcript.AppendUser("hi")
		open, err := transcript.BeginBook()
		Expect(err).NotTo(HaveOccurred())

		_, err = client.Ask(context.Background(), "b1", "hi")
		Expect(err).To(HaveOccurred())
		transcript.FailBook(open.ID)

		messages := transcript.Messages()
		Expect(messages[1].Content).To(Equal(conversation.FallbackAnswer))
		Expect(transcript.Open()).To(BeFalse())
	})

	It("handles an empty catalog without crashing", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/books"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, "[]")
		}))
		defer server.Close()

		client := bookapi.New(server.URL)
		books, err := client.Books(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(books).To(BeEmpty())
	})
})
