package journalRepo

import (
	"context"

	"wellportal/database"
	"wellportal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultListLimit caps Recent when no limit is given.
const DefaultListLimit = 50

// MaxListLimit is the largest page Recent will return.
const MaxListLimit = 500

// BookingJournalRepository records booking, cancel and reschedule attempts.
type BookingJournalRepository interface {
	Record(ctx context.Context, attempt models.BookingAttempt) error
	Recent(ctx context.Context, limit int) ([]models.BookingAttempt, error)
	ByUser(ctx context.Context, userID int64, limit int) ([]models.BookingAttempt, error)
}

type mongoJournalRepo struct {
	coll *mongo.Collection
}

// NewMongoJournalRepo returns a BookingJournalRepository backed by MongoDB.
func NewMongoJournalRepo() BookingJournalRepository {
	return &mongoJournalRepo{
		coll: database.Database().Collection("booking_attempts"),
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
