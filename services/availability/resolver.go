package availability

import (
	"context"
	"fmt"

	"wellportal/services/apiclient"
	"wellportal/services/notify"
	"wellportal/services/tokenstore"

	"go.uber.org/zap"
)

// SlotsAPI is the backend call behind the resolver.
type SlotsAPI interface {
	AvailableSlots(ctx context.Context, token string, practitionerID int64, date string) ([]string, error)
}

// Resolver reads a practitioner's free slots for one date. Nothing is
// cached; each call goes to the backend.
type Resolver struct {
	API    SlotsAPI
	Logger *zap.Logger
}

func NewResolver(api SlotsAPI, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{API: api, Logger: logger}
}

// FetchSlots returns the normalised slot list or the failure. A 401/403
// clears the session.
func (r *Resolver) FetchSlots(ctx context.Context, store tokenstore.Store, practitionerID int64, date string) ([]string, error) {
	session, err := tokenstore.Session(ctx, store)
	if err != nil {
		return nil, err
	}
	raw, err := r.API.AvailableSlots(ctx, session.AccessToken, practitionerID, date)
	if err != nil {
		if apiclient.IsAuthFailure(err) {
			if clearErr := store.Clear(ctx); clearErr != nil {
				r.Logger.Error("Failed to clear session", zap.Error(clearErr))
			}
		}
		return nil, fmt.Errorf("slots for %d on %s: %w", practitionerID, date, err)
	}
	return NormalizeSlots(raw), nil
}

// GetAvailableSlots never fails: errors become an empty list plus an error
// notice on sink.
func (r *Resolver) GetAvailableSlots(ctx context.Context, store tokenstore.Store, practitionerID int64, date string, sink notify.Sink) []string {
	slots, err := r.FetchSlots(ctx, store, practitionerID, date)
	if err != nil {
		r.Logger.Warn("Slot lookup failed",
			zap.Int64("practitionerId", practitionerID),
			zap.String("date", date),
			zap.Error(err),
		)
		sink.Notify(ctx, notify.Error(apiclient.MessageOf(err)))
		return []string{}
	}
	return slots
}
