package sse_test

import (
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/storylinehq/storyline/pkg/sse"
)

// drip yields its payload one byte per Read call, the worst-case transport
// chunking.
type drip struct {
	payload string
	pos     int
}

func (d *drip) Read(p []byte) (int, error) {
	if d.pos >= len(d.payload) {
		return 0, io.EOF
	}
	p[0] = d.payload[d.pos]
	d.pos++
	return 1, nil
}

// failAfter returns its payload then a non-EOF error.
type failAfter struct {
	payload string
	err     error
	read    bool
}

func (f *failAfter) Read(p []byte) (int, error) {
	if f.read {
		return 0, f.err
	}
	f.read = true
	return copy(p, f.payload), nil
}

var _ = Describe("Reader", func() {
	It("parses events from a well-formed stream", func() {
		r := sse.NewReader(strings.NewReader("data: Hello\n\ndata: World\n\n"))

		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal("Hello"))

		ev, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal("World"))

		ev, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(BeNil())
	})

	It("reassembles frames from single-byte reads", func() {
		r := sse.NewReader(&drip{payload: "event: chunk\ndata: ¡hola!\n\ndata: mundo\n\n"})

		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal("chunk"))
		Expect(ev.Data).To(Equal("¡hola!"))

		ev, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal("mundo"))

		ev, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(BeNil())
	})

	It("yields an unterminated trailing frame at end of stream", func() {
		r := sse.NewReader(strings.NewReader("data: tail"))

		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal("tail"))

		ev, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(BeNil())
	})

	It("returns nil on an empty source", func() {
		r := sse.NewReader(strings.NewReader(""))

		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(BeNil())
	})

	It("keeps returning nil after exhaustion", func() {
		r := sse.NewReader(strings.NewReader("data: once\n\n"))

		_, err := r.Next()
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 3; i++ {
			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev).To(BeNil())
		}
	})

	It("surfaces complete events before a read error", func() {
		boom := errors.New("connection reset")
		r := sse.NewReader(&failAfter{payload: "data: partial\n\n", err: boom})

		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal("partial"))

		_, err = r.Next()
		Expect(err).To(MatchError(boom))
	})
})
