package journalRepo

import (
	"context"
	"time"

	"wellportal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record inserts one attempt.
func (r *mongoJournalRepo) Record(ctx context.Context, attempt models.BookingAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, attempt)
	return err
}

// Recent returns the newest attempts first.
func (r *mongoJournalRepo) Recent(ctx context.Context, limit int) ([]models.BookingAttempt, error) {
	return r.find(ctx, bson.M{}, limit)
}

// ByUser returns one user's newest attempts first.
func (r *mongoJournalRepo) ByUser(ctx context.Context, userID int64, limit int) ([]models.BookingAttempt, error) {
	return r.find(ctx, bson.M{"userId": userID}, limit)
}

func (r *mongoJournalRepo) find(ctx context.Context, filter bson.M, limit int) ([]models.BookingAttempt, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(clampLimit(limit)))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	attempts := []models.BookingAttempt{}
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}
