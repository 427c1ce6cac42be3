package journal

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/storylinehq/storyline/pkg/storage"
)

// dateLayout is the persisted format of lastActiveDate.
const dateLayout = "2006-01-02"

// Streak tracks consecutive calendar days with at least one question sent.
type Streak struct {
	store  storage.Store
	logger *slog.Logger
}

// NewStreak creates a Streak on the given store.
func NewStreak(store storage.Store, logger *slog.Logger) *Streak {
	return &Streak{store: store, logger: logger}
}

// Current returns the streak badge value. Any read failure degrades to 0.
func (s *Streak) Current(ctx context.Context) int {
	raw, err := s.store.Get(ctx, storage.KeyStreakCount)
	if err != nil {
		return 0
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		s.logger.Warn("streak count is not a number, resetting", "value", raw)
		return 0
	}

	return count
}

// Touch records a question sent at the given time and returns the updated
// streak:
//   - already active today: unchanged
//   - last active yesterday: incremented
//   - otherwise (absent or older): reset to 1
func (s *Streak) Touch(ctx context.Context, now time.Time) (int, error) {
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	lastActive, err := s.store.Get(ctx, storage.KeyLastActiveDate)
	if err != nil && !isNotFound(err) {
		return 0, err
	}

	count := s.Current(ctx)
	switch lastActive {
	case today:
		// Already counted today.
	case yesterday:
		count++
	default:
		count = 1
	}

	if err := s.store.Set(ctx, storage.KeyStreakCount, strconv.Itoa(count)); err != nil {
		return 0, err
	}
	if err := s.store.Set(ctx, storage.KeyLastActiveDate, today); err != nil {
		return 0, err
	}

	return count, nil
}
