package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	journalRepo "wellportal/database/repository/journal"
	"wellportal/models"
	"wellportal/services/apiclient"
	"wellportal/services/notify"
	"wellportal/services/tokenstore"
	"wellportal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionsAPI is the backend's therapy session resource.
type SessionsAPI interface {
	BookSession(ctx context.Context, token string, in models.BookSessionRequest) (*models.TherapySession, error)
	CancelSession(ctx context.Context, token string, sessionID int64, in models.CancelSessionRequest) (*models.TherapySession, error)
	RescheduleSession(ctx context.Context, token string, sessionID int64, in models.RescheduleSessionRequest) (*models.TherapySession, error)
	UserSessions(ctx context.Context, token string, userID int64) ([]models.TherapySession, error)
	PractitionerSessions(ctx context.Context, token string, practitionerID int64) ([]models.TherapySession, error)
}

// SlotCalendar is the calendar state a booking reads and updates.
type SlotCalendar interface {
	PractitionerID() int64
	Selection() (models.Slot, string)
	ClearSelection()
	Refresh(ctx context.Context) error
}

const (
	msgBooked        = "Session booked successfully!"
	msgBookFailed    = "Booking failed. Please try again."
	msgCancelled     = "Session cancelled."
	msgCancelFailed  = "Failed to cancel session."
	msgRescheduled   = "Session rescheduled successfully!"
	msgRescheduleErr = "Reschedule failed."
	msgSignedOut     = "Your session has expired. Please log in again."
)

// Workflow submits bookings, cancellations and reschedules. The backend
// decides every status; nothing is changed locally until it answers.
type Workflow struct {
	API     SessionsAPI
	Journal journalRepo.BookingJournalRepository
	Logger  *zap.Logger
	Now     func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewWorkflow(api SessionsAPI, journal journalRepo.BookingJournalRepository, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		API:      api,
		Journal:  journal,
		Logger:   logger,
		Now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// Book submits the calendar's selected slot.
func (w *Workflow) Book(ctx context.Context, store tokenstore.Store, cal SlotCalendar, sink notify.Sink, in models.BookingInput) (*models.TherapySession, error) {
	slot, pendingKey := cal.Selection()
	if slot.IsZero() {
		return nil, ErrNoSlotSelected
	}
	if in.SessionType == "" {
		in.SessionType = models.SessionOnline
	}
	if in.SessionType != models.SessionOnline && in.SessionType != models.SessionOffline {
		return nil, ErrInvalidSessionType
	}

	requestID := in.RequestID
	if requestID == "" {
		requestID = pendingKey
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	session, err := tokenstore.Session(ctx, store)
	if err != nil {
		return nil, err
	}

	if !w.acquire(requestID) {
		return nil, ErrBookingInFlight
	}
	defer w.release(requestID)

	req := models.BookSessionRequest{
		PractitionerID: cal.PractitionerID(),
		SessionDate:    slot.Date,
		StartTime:      slot.Time,
		SessionType:    in.SessionType,
		Notes:          in.Notes,
		RequestID:      requestID,
	}
	attempt := models.BookingAttempt{
		ID:             requestID,
		Op:             models.OpBook,
		UserID:         userID(session),
		PractitionerID: req.PractitionerID,
		Date:           slot.Date,
		Time:           slot.Time,
	}

	booked, err := w.API.BookSession(ctx, session.AccessToken, req)
	if err != nil {
		outcome := w.fail(ctx, store, sink, err, msgBookFailed)
		if apiclient.IsRejection(err) {
			// The day's list is stale once the backend refuses a slot.
			if refreshErr := cal.Refresh(ctx); refreshErr != nil {
				w.Logger.Warn("Slot refresh after rejected booking failed", zap.Error(refreshErr))
			}
		}
		w.finish(ctx, attempt, outcome, apiclient.MessageOf(err))
		return nil, err
	}

	cal.ClearSelection()
	// The booked time is gone from the day's list now.
	if refreshErr := cal.Refresh(ctx); refreshErr != nil {
		w.Logger.Warn("Slot refresh after booking failed", zap.Error(refreshErr))
	}
	sink.Notify(ctx, notify.Success(msgBooked))
	sink.Notify(ctx, notify.Event(models.EventSessionsRefresh))
	attempt.SessionID = booked.ID
	w.finish(ctx, attempt, models.OutcomeBooked, "")
	return booked, nil
}

// Cancel cancels sessionID after checking its current status. practitionerID
// scopes the lookup for practitioners and admins.
func (w *Workflow) Cancel(ctx context.Context, store tokenstore.Store, sink notify.Sink, sessionID, practitionerID int64, reason string) (*models.TherapySession, error) {
	session, err := tokenstore.Session(ctx, store)
	if err != nil {
		return nil, err
	}
	attempt := models.BookingAttempt{ID: uuid.NewString(), Op: models.OpCancel, UserID: userID(session), SessionID: sessionID}

	current, err := w.lookup(ctx, store, session, sessionID, practitionerID)
	if err != nil {
		return nil, w.abort(ctx, store, sink, attempt, err, msgCancelFailed)
	}
	attempt.PractitionerID, attempt.Date, attempt.Time = current.PractitionerID, current.SessionDate, current.StartTime

	switch current.Status {
	case models.StatusCancelled:
		return nil, w.abort(ctx, store, sink, attempt, ErrAlreadyCancelled, msgCancelFailed)
	case models.StatusCompleted:
		return nil, w.abort(ctx, store, sink, attempt, ErrSessionCompleted, msgCancelFailed)
	}

	by := CancelledBy(roleOf(session))
	if reason == "" {
		reason = "Cancelled by " + strings.ToLower(by)
	}
	updated, err := w.API.CancelSession(ctx, session.AccessToken, sessionID, models.CancelSessionRequest{CancelledBy: by, Reason: reason})
	if err != nil {
		return nil, w.abort(ctx, store, sink, attempt, err, msgCancelFailed)
	}

	sink.Notify(ctx, notify.Success(msgCancelled))
	sink.Notify(ctx, notify.Event(models.EventSessionsRefresh))
	w.finish(ctx, attempt, models.OutcomeOK, "")
	return updated, nil
}

// Reschedule moves a BOOKED session to a new date and time.
func (w *Workflow) Reschedule(ctx context.Context, store tokenstore.Store, sink notify.Sink, sessionID, practitionerID int64, date, startTime, reason string) (*models.TherapySession, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrRescheduleTarget
	}
	if _, err := time.Parse("15:04", startTime); err != nil {
		return nil, ErrRescheduleTarget
	}
	session, err := tokenstore.Session(ctx, store)
	if err != nil {
		return nil, err
	}
	attempt := models.BookingAttempt{
		ID:        uuid.NewString(),
		Op:        models.OpReschedule,
		UserID:    userID(session),
		SessionID: sessionID,
		Date:      date,
		Time:      startTime,
	}

	current, err := w.lookup(ctx, store, session, sessionID, practitionerID)
	if err != nil {
		return nil, w.abort(ctx, store, sink, attempt, err, msgRescheduleErr)
	}
	attempt.PractitionerID = current.PractitionerID
	if current.Status != models.StatusBooked {
		return nil, w.abort(ctx, store, sink, attempt, ErrNotReschedulable, msgRescheduleErr)
	}

	updated, err := w.API.RescheduleSession(ctx, session.AccessToken, sessionID, models.RescheduleSessionRequest{
		NewSessionDate: date,
		NewStartTime:   startTime,
		Reason:         reason,
	})
	if err != nil {
		return nil, w.abort(ctx, store, sink, attempt, err, msgRescheduleErr)
	}

	sink.Notify(ctx, notify.Success(msgRescheduled))
	sink.Notify(ctx, notify.Event(models.EventSessionsRefresh))
	w.finish(ctx, attempt, models.OutcomeOK, "")
	return updated, nil
}

// MySessions lists the logged-in patient's sessions.
func (w *Workflow) MySessions(ctx context.Context, store tokenstore.Store) ([]models.TherapySession, error) {
	session, err := tokenstore.Session(ctx, store)
	if err != nil {
		return nil, err
	}
	list, err := w.API.UserSessions(ctx, session.AccessToken, userID(session))
	if err != nil {
		w.clearOnAuthFailure(ctx, store, err)
		return nil, err
	}
	return list, nil
}

// PractitionerSessions lists every session held by practitionerID.
func (w *Workflow) PractitionerSessions(ctx context.Context, store tokenstore.Store, practitionerID int64) ([]models.TherapySession, error) {
	session, err := tokenstore.Session(ctx, store)
	if err != nil {
		return nil, err
	}
	list, err := w.API.PractitionerSessions(ctx, session.AccessToken, practitionerID)
	if err != nil {
		w.clearOnAuthFailure(ctx, store, err)
		return nil, err
	}
	return list, nil
}

// lookup reads the session's current state from the backend.
func (w *Workflow) lookup(ctx context.Context, store tokenstore.Store, session *models.AuthSession, sessionID, practitionerID int64) (*models.TherapySession, error) {
	var (
		list []models.TherapySession
		err  error
	)
	switch {
	case roleOf(session) == models.RolePatient:
		list, err = w.API.UserSessions(ctx, session.AccessToken, userID(session))
	case practitionerID != 0:
		list, err = w.API.PractitionerSessions(ctx, session.AccessToken, practitionerID)
	default:
		return nil, ErrLookupScope
	}
	if err != nil {
		return nil, fmt.Errorf("look up session %d: %w", sessionID, err)
	}
	for i := range list {
		if list[i].ID == sessionID {
			return &list[i], nil
		}
	}
	return nil, ErrSessionNotFound
}

// abort reports a failed cancel or reschedule and journals it.
func (w *Workflow) abort(ctx context.Context, store tokenstore.Store, sink notify.Sink, attempt models.BookingAttempt, err error, fallback string) error {
	var outcome string
	if text, ok := statusRefusals[err]; ok {
		sink.Notify(ctx, notify.Error(text))
		outcome = models.OutcomeRejected
	} else {
		outcome = w.fail(ctx, store, sink, err, fallback)
	}
	msg := apiclient.MessageOf(err)
	if text, ok := statusRefusals[err]; ok {
		msg = text
	}
	w.finish(ctx, attempt, outcome, msg)
	return err
}

// fail turns a backend error into a notice and an outcome label.
func (w *Workflow) fail(ctx context.Context, store tokenstore.Store, sink notify.Sink, err error, fallback string) string {
	switch {
	case apiclient.IsAuthFailure(err):
		w.clearOnAuthFailure(ctx, store, err)
		sink.Notify(ctx, notify.Error(msgSignedOut))
		return models.OutcomeAuth
	case apiclient.KindOf(err) == apiclient.KindConflict:
		sink.Notify(ctx, notify.Error(apiclient.MessageOf(err)))
		return models.OutcomeConflict
	case apiclient.IsRejection(err):
		sink.Notify(ctx, notify.Error(apiclient.MessageOf(err)))
		return models.OutcomeRejected
	}
	var apiErr *apiclient.Error
	msg := fallback
	if errors.As(err, &apiErr) && apiErr.Kind == apiclient.KindNetwork {
		msg = apiErr.Message
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		msg = verr.Message
	}
	sink.Notify(ctx, notify.Error(msg))
	return models.OutcomeFailed
}

func (w *Workflow) clearOnAuthFailure(ctx context.Context, store tokenstore.Store, err error) {
	if !apiclient.IsAuthFailure(err) {
		return
	}
	if clearErr := store.Clear(ctx); clearErr != nil {
		w.Logger.Error("Failed to clear session", zap.Error(clearErr))
	}
}

// finish counts and journals an attempt. Journal failures are only logged.
func (w *Workflow) finish(ctx context.Context, attempt models.BookingAttempt, outcome, message string) {
	utils.BookingOutcomes.WithLabelValues(attempt.Op, outcome).Inc()
	attempt.Outcome = outcome
	attempt.Message = message
	attempt.CreatedAt = w.Now()

	w.Logger.Info("Booking attempt",
		zap.String("op", attempt.Op),
		zap.String("outcome", outcome),
		zap.Int64("practitionerId", attempt.PractitionerID),
		zap.Int64("sessionId", attempt.SessionID),
	)
	if w.Journal == nil {
		return
	}
	if err := w.Journal.Record(context.WithoutCancel(ctx), attempt); err != nil {
		w.Logger.Warn("Failed to journal booking attempt", zap.Error(err))
	}
}

func (w *Workflow) acquire(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[key]; busy {
		return false
	}
	w.inFlight[key] = struct{}{}
	return true
}

func (w *Workflow) release(key string) {
	w.mu.Lock()
	delete(w.inFlight, key)
	w.mu.Unlock()
}

// CancelledBy maps a portal role to the backend's canceller label.
func CancelledBy(role models.Role) string {
	switch role {
	case models.RolePractitioner:
		return "PRACTITIONER"
	case models.RoleAdmin:
		return "ADMIN"
	}
	return "USER"
}

func roleOf(s *models.AuthSession) models.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

func userID(s *models.AuthSession) int64 {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}
