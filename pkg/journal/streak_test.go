package journal_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/storylinehq/storyline/pkg/journal"
	"github.com/storylinehq/storyline/pkg/storage"
	"github.com/storylinehq/storyline/pkg/storage/inmemory"
)

var _ = Describe("Streak", func() {
	var (
		ctx    context.Context
		store  *inmemory.Store
		streak *journal.Streak
		today  time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = inmemory.NewStore()
		streak = journal.NewStreak(store, discard)
		today = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	})

	set := func(lastActive string, count string) {
		Expect(store.Set(ctx, storage.KeyLastActiveDate, lastActive)).To(Succeed())
		Expect(store.Set(ctx, storage.KeyStreakCount, count)).To(Succeed())
	}

	Describe("Touch transition table", func() {
		It("starts at 1 with no prior state", func() {
			count, err := streak.Touch(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("stays unchanged when already active today", func() {
			set("2025-06-15", "4")

			count, err := streak.Touch(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(4))
		})

		It("increments when last active yesterday", func() {
			set("2025-06-14", "4")

			count, err := streak.Touch(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(5))
		})

		It("resets to 1 when last active before yesterday", func() {
			set("2025-06-10", "12")

			count, err := streak.Touch(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("increments across a month boundary", func() {
			set("2025-05-31", "2")

			count, err := streak.Touch(ctx, time.Date(2025, 6, 1, 0, 5, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
		})

		It("records today as the last active date", func() {
			_, err := streak.Touch(ctx, today)
			Expect(err).NotTo(HaveOccurred())

			lastActive, err := store.Get(ctx, storage.KeyLastActiveDate)
			Expect(err).NotTo(HaveOccurred())
			Expect(lastActive).To(Equal("2025-06-15"))
		})

		It("is idempotent within a day", func() {
			set("2025-06-14", "1")

			for i := 0; i < 3; i++ {
				_, err := streak.Touch(ctx, today)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(streak.Current(ctx)).To(Equal(2))
		})
	})

	Describe("Current", func() {
		It("is 0 with no prior state", func() {
			Expect(streak.Current(ctx)).To(BeZero())
		})

		It("reads the persisted badge value", func() {
			set("2025-06-15", "9")
			Expect(streak.Current(ctx)).To(Equal(9))
		})

		It("degrades to 0 on a garbage value", func() {
			Expect(store.Set(ctx, storage.KeyStreakCount, "lots")).To(Succeed())
			Expect(streak.Current(ctx)).To(BeZero())
		})

		It("degrades to 0 on a broken store", func() {
			streak := journal.NewStreak(brokenStore{}, discard)
			Expect(streak.Current(ctx)).To(BeZero())
		})
	})
})
