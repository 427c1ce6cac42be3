package journal_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/storylinehq/storyline/pkg/journal"
	"github.com/storylinehq/storyline/pkg/storage"
	"github.com/storylinehq/storyline/pkg/storage/inmemory"
)

var _ = Describe("Sessions", func() {
	var (
		ctx      context.Context
		store    *inmemory.Store
		sessions *journal.Sessions
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = inmemory.NewStore()
		sessions = journal.NewSessions(store, discard)
	})

	It("reports no session before anything is recorded", func() {
		_, ok := sessions.Last(ctx)
		Expect(ok).To(BeFalse())
	})

	It("round-trips the last session", func() {
		err := sessions.Remember(ctx, journal.Session{
			BookID:    "b1",
			Question:  "What is chapter 1 about?",
			BookTitle: "Moby-Dick",
		})
		Expect(err).NotTo(HaveOccurred())

		session, ok := sessions.Last(ctx)
		Expect(ok).To(BeTrue())
		Expect(session.BookID).To(Equal("b1"))
		Expect(session.BookTitle).To(Equal("Moby-Dick"))
	})

	It("persists the contract field names", func() {
		err := sessions.Remember(ctx, journal.Session{BookID: "b1", Question: "q", BookTitle: "t"})
		Expect(err).NotTo(HaveOccurred())

		raw, err := store.Get(ctx, storage.KeyLastSession)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(MatchJSON(`{"bookId":"b1","question":"q","bookTitle":"t"}`))
	})

	It("degrades to no session on an unreadable value", func() {
		Expect(store.Set(ctx, storage.KeyLastSession, "??")).To(Succeed())

		_, ok := sessions.Last(ctx)
		Expect(ok).To(BeFalse())
	})

	It("degrades to no session on a broken store", func() {
		sessions := journal.NewSessions(brokenStore{}, discard)

		_, ok := sessions.Last(ctx)
		Expect(ok).To(BeFalse())
	})
})
