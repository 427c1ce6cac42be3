package sse_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/storylinehq/storyline/pkg/sse"
)

// feedAll pushes the whole input through a fresh parser in a single chunk
// and returns the parsed events including any flushed trailing frame.
func feedAll(input string) []sse.Event {
	var p sse.Parser
	events := p.Feed([]byte(input))
	return append(events, p.Close()...)
}

// feedSplit pushes the input through a fresh parser split at byte offset n.
func feedSplit(input string, n int) []sse.Event {
	var p sse.Parser
	events := p.Feed([]byte(input[:n]))
	events = append(events, p.Feed([]byte(input[n:]))...)
	return append(events, p.Close()...)
}

var _ = Describe("Parser", func() {
	Context("with standard SSE frames", func() {
		It("parses a single frame", func() {
			events := feedAll("data: hello world\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal("hello world"))
			Expect(events[0].Type).To(BeEmpty())
			Expect(events[0].ID).To(BeEmpty())
		})

		It("parses multiple frames from one chunk", func() {
			events := feedAll("data: first\n\ndata: second\n\n")
			Expect(events).To(HaveLen(2))
			Expect(events[0].Data).To(Equal("first"))
			Expect(events[1].Data).To(Equal("second"))
		})

		It("parses the event type", func() {
			events := feedAll("event: chunk\ndata: hi\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Type).To(Equal("chunk"))
			Expect(events[0].Data).To(Equal("hi"))
		})

		It("keeps the last event type when a frame repeats it", func() {
			events := feedAll("event: ping\nevent: chunk\ndata: hi\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Type).To(Equal("chunk"))
		})

		It("parses the event ID", func() {
			events := feedAll("id: 42\ndata: hello\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].ID).To(Equal("42"))
		})

		It("joins multiple data lines with newline", func() {
			events := feedAll("data: line one\ndata: line two\ndata: line three\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal("line one\nline two\nline three"))
		})
	})

	Context("with chunked input", func() {
		It("yields identical events no matter where the stream is split", func() {
			input := "event: chunk\ndata: héllo\ndata: wörld\n\nevent: ping\ndata: x\n\ndata: tail\n\n"
			whole := feedAll(input)
			Expect(whole).To(HaveLen(3))

			// Every split point, including mid-line, mid-rune, and exactly
			// on the "\n\n" delimiter.
			for n := 1; n < len(input); n++ {
				Expect(feedSplit(input, n)).To(Equal(whole), "split at byte %d", n)
			}
		})

		It("loses no data when every byte arrives alone", func() {
			input := "data: Hello\n\ndata: World\n\n"

			var p sse.Parser
			var events []sse.Event
			for i := range input {
				events = append(events, p.Feed([]byte{input[i]})...)
			}
			events = append(events, p.Close()...)

			Expect(events).To(HaveLen(2))
			Expect(events[0].Data + events[1].Data).To(Equal("HelloWorld"))
		})

		It("holds a partial frame until the delimiter arrives", func() {
			var p sse.Parser
			Expect(p.Feed([]byte("data: par"))).To(BeEmpty())
			Expect(p.Feed([]byte("tial\n"))).To(BeEmpty())

			events := p.Feed([]byte("\n"))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal("partial"))
		})
	})

	Context("with frames that carry no delta", func() {
		It("drops a frame with zero data lines", func() {
			events := feedAll("event: done\n\ndata: real\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal("real"))
		})

		It("skips blank-line runs between frames", func() {
			events := feedAll("\n\n\n\ndata: hello\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal("hello"))
		})

		It("ignores comment lines", func() {
			events := feedAll(": keep-alive\ndata: hello\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal("hello"))
		})

		It("ignores unknown fields and malformed lines", func() {
			events := feedAll("retry: 3000\nfoo: bar\nnonsense\ndata: hello\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal("hello"))
		})
	})

	Context("with data field variations", func() {
		It("handles data with no space after the colon", func() {
			events := feedAll("data:no-space\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal("no-space"))
		})

		It("keeps an empty data value as an empty delta line", func() {
			events := feedAll("data:\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(BeEmpty())
		})

		It("treats a lone space after the colon as empty per spec", func() {
			events := feedAll("data: \n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(BeEmpty())
		})

		It("treats a bare data field with no colon as an empty value", func() {
			// Per spec: a line with no colon is a field name with an empty
			// value.
			events := feedAll("data\n\n")
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(BeEmpty())
		})

		It("strips a trailing carriage return from CRLF framing", func() {
			events := feedAll("data: hello\r\n\ndata: next\n\n")
			Expect(events).To(HaveLen(2))
			Expect(events[0].Data).To(Equal("hello"))
		})
	})

	Context("at end of stream", func() {
		It("flushes an unterminated trailing frame on Close", func() {
			var p sse.Parser
			Expect(p.Feed([]byte("data: unterminated"))).To(BeEmpty())

			events := p.Close()
			Expect(events).To(HaveLen(1))
			Expect(events[0].Data).To(Equal("unterminated"))
		})

		It("flushes nothing when the stream ended cleanly", func() {
			var p sse.Parser
			p.Feed([]byte("data: done\n\n"))
			Expect(p.Close()).To(BeEmpty())
		})
	})
})

var _ = Describe("Event", func() {
	Describe("IsChunk", func() {
		It("treats an absent type as a chunk", func() {
			ev := sse.Event{Data: "x"}
			Expect(ev.IsChunk()).To(BeTrue())
		})

		It("treats the literal chunk type as a chunk", func() {
			ev := sse.Event{Type: "chunk", Data: "x"}
			Expect(ev.IsChunk()).To(BeTrue())
		})

		It("rejects every other type", func() {
			for _, t := range []string{"ping", "done", "error", "message"} {
				ev := sse.Event{Type: t, Data: "x"}
				Expect(ev.IsChunk()).To(BeFalse(), "type %q", t)
			}
		})
	})
})
