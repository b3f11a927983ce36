package availability

import (
	"context"
	"fmt"

	"wellportal/models"
	"wellportal/services/apiclient"
	"wellportal/services/tokenstore"

	"go.uber.org/zap"
)

// WindowsAPI is the backend's weekly availability resource.
type WindowsAPI interface {
	Availability(ctx context.Context, practitionerID int64) ([]models.AvailabilityWindow, error)
	SetAvailability(ctx context.Context, token string, practitionerID int64, w models.AvailabilityWindow) (*models.AvailabilityWindow, error)
}

// Windows manages practitioners' weekly availability.
type Windows struct {
	API    WindowsAPI
	Logger *zap.Logger
}

func NewWindows(api WindowsAPI, logger *zap.Logger) *Windows {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Windows{API: api, Logger: logger}
}

// NormalizeWindow applies the backend defaults and checks the window
// before anything is sent.
func NormalizeWindow(w models.AvailabilityWindow) (models.AvailabilityWindow, error) {
	if !w.DayOfWeek.Valid() {
		return w, &ValidationError{Field: "dayOfWeek", Message: "must be MONDAY to SUNDAY"}
	}
	start, err := parseClock(w.StartTime)
	if err != nil {
		return w, &ValidationError{Field: "startTime", Message: err.Error()}
	}
	end, err := parseClock(w.EndTime)
	if err != nil {
		return w, &ValidationError{Field: "endTime", Message: err.Error()}
	}
	if start >= end {
		return w, &ValidationError{Field: "endTime", Message: "End time must be after start time"}
	}
	if w.SlotDuration == 0 {
		w.SlotDuration = models.DefaultSlotDuration
	}
	if !ValidDuration(w.SlotDuration) {
		return w, &ValidationError{Field: "slotDuration", Message: fmt.Sprintf("must be one of %v minutes", models.SlotDurations)}
	}
	if w.IsAvailable == nil {
		available := true
		w.IsAvailable = &available
	}
	w.StartTime = formatClock(start)
	w.EndTime = formatClock(end)
	return w, nil
}

// Set saves the window for its weekday, replacing any earlier one.
func (s *Windows) Set(ctx context.Context, store tokenstore.Store, practitionerID int64, w models.AvailabilityWindow) (*models.AvailabilityWindow, error) {
	w, err := NormalizeWindow(w)
	if err != nil {
		return nil, err
	}
	session, err := tokenstore.Session(ctx, store)
	if err != nil {
		return nil, err
	}
	saved, err := s.API.SetAvailability(ctx, session.AccessToken, practitionerID, w)
	if err != nil {
		if apiclient.IsAuthFailure(err) {
			_ = store.Clear(ctx)
		}
		return nil, err
	}
	s.Logger.Info("Availability saved",
		zap.Int64("practitionerId", practitionerID),
		zap.String("day", string(w.DayOfWeek)),
	)
	return saved, nil
}

func (s *Windows) List(ctx context.Context, practitionerID int64) ([]models.AvailabilityWindow, error) {
	return s.API.Availability(ctx, practitionerID)
}

// Preview shows the slots a window would offer given existing bookings.
func (s *Windows) Preview(w models.AvailabilityWindow, booked []models.BookedInterval) ([]string, error) {
	w, err := NormalizeWindow(w)
	if err != nil {
		return nil, err
	}
	return GenerateSlots(w, booked), nil
}
