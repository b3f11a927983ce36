package journalRepo

import (
	"context"
	"sync"
	"time"

	"wellportal/models"

	"github.com/google/uuid"
)

// memoryCapacity bounds the in-process journal; the oldest entries go first.
const memoryCapacity = 1000

type memoryJournalRepo struct {
	mu       sync.Mutex
	attempts []models.BookingAttempt
	capacity int
}

// NewMemoryJournalRepo keeps the journal in process, for deployments
// without MongoDB and for tests.
func NewMemoryJournalRepo() BookingJournalRepository {
	return &memoryJournalRepo{capacity: memoryCapacity}
}

func (r *memoryJournalRepo) Record(_ context.Context, attempt models.BookingAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
	if len(r.attempts) > r.capacity {
		r.attempts = append([]models.BookingAttempt(nil), r.attempts[len(r.attempts)-r.capacity:]...)
	}
	return nil
}

func (r *memoryJournalRepo) Recent(_ context.Context, limit int) ([]models.BookingAttempt, error) {
	return r.collect(func(models.BookingAttempt) bool { return true }, limit), nil
}

func (r *memoryJournalRepo) ByUser(_ context.Context, userID int64, limit int) ([]models.BookingAttempt, error) {
	return r.collect(func(a models.BookingAttempt) bool { return a.UserID == userID }, limit), nil
}

// collect walks newest to oldest.
func (r *memoryJournalRepo) collect(keep func(models.BookingAttempt) bool, limit int) []models.BookingAttempt {
	limit = clampLimit(limit)
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.BookingAttempt{}
	for i := len(r.attempts) - 1; i >= 0 && len(out) < limit; i-- {
		if keep(r.attempts[i]) {
			out = append(out, r.attempts[i])
		}
	}
	return out
}
