package booking

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	journalRepo "wellportal/database/repository/journal"
	"wellportal/models"
	"wellportal/services/apiclient"
	"wellportal/services/availability"
	"wellportal/services/tokenstore"
)

type mockSessionsAPI struct {
	bookFn         func(ctx context.Context, token string, in models.BookSessionRequest) (*models.TherapySession, error)
	cancelFn       func(ctx context.Context, token string, id int64, in models.CancelSessionRequest) (*models.TherapySession, error)
	rescheduleFn   func(ctx context.Context, token string, id int64, in models.RescheduleSessionRequest) (*models.TherapySession, error)
	userListFn     func(ctx context.Context, token string, userID int64) ([]models.TherapySession, error)
	practitionerFn func(ctx context.Context, token string, practitionerID int64) ([]models.TherapySession, error)
}

func (m *mockSessionsAPI) BookSession(ctx context.Context, token string, in models.BookSessionRequest) (*models.TherapySession, error) {
	return m.bookFn(ctx, token, in)
}

func (m *mockSessionsAPI) CancelSession(ctx context.Context, token string, id int64, in models.CancelSessionRequest) (*models.TherapySession, error) {
	return m.cancelFn(ctx, token, id, in)
}

func (m *mockSessionsAPI) RescheduleSession(ctx context.Context, token string, id int64, in models.RescheduleSessionRequest) (*models.TherapySession, error) {
	return m.rescheduleFn(ctx, token, id, in)
}

func (m *mockSessionsAPI) UserSessions(ctx context.Context, token string, userID int64) ([]models.TherapySession, error) {
	return m.userListFn(ctx, token, userID)
}

func (m *mockSessionsAPI) PractitionerSessions(ctx context.Context, token string, practitionerID int64) ([]models.TherapySession, error) {
	return m.practitionerFn(ctx, token, practitionerID)
}

type recordingSink struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (r *recordingSink) Notify(_ context.Context, n models.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *recordingSink) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notices {
		if n.Message != "" {
			out = append(out, n.Level+":"+n.Message)
		}
		if n.Event != "" {
			out = append(out, "event:"+n.Event)
		}
	}
	return out
}

// slotSource serves a mutable slot list to the calendar and counts fetches.
type slotSource struct {
	mu      sync.Mutex
	slots   []string
	fetches int
}

func (s *slotSource) FetchSlots(context.Context, tokenstore.Store, int64, string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	return append([]string(nil), s.slots...), nil
}

var today = time.Date(2026, 2, 19, 8, 0, 0, 0, time.Local)

func loggedIn(t *testing.T, role models.Role) tokenstore.Store {
	t.Helper()
	store := tokenstore.NewMemoryProvider(0).For("sid")
	err := store.Save(context.Background(), &models.AuthSession{
		AccessToken: "tok",
		User:        &models.User{ID: 11, Role: role},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return store
}

func selectedCalendar(t *testing.T, src *slotSource, date, slot string) *availability.Calendar {
	t.Helper()
	cal := availability.NewCalendar(5, nil, src, func() time.Time { return today })
	if err := cal.SelectDate(context.Background(), date); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if _, err := cal.SelectSlot(slot); err != nil {
		t.Fatalf("SelectSlot: %v", err)
	}
	return cal
}

func TestBookConflictRefreshesSlots(t *testing.T) {
	src := &slotSource{slots: []string{"09:00", "10:00", "11:00"}}
	cal := selectedCalendar(t, src, "2026-02-20", "10:00")

	// Another client takes 10:00 before this submission lands.
	api := &mockSessionsAPI{bookFn: func(context.Context, string, models.BookSessionRequest) (*models.TherapySession, error) {
		src.mu.Lock()
		src.slots = []string{"09:00", "11:00"}
		src.mu.Unlock()
		return nil, &apiclient.Error{Kind: apiclient.KindConflict, Status: 409, Message: "This time slot is already booked"}
	}}
	journal := journalRepo.NewMemoryJournalRepo()
	sink := &recordingSink{}
	store := loggedIn(t, models.RolePatient)

	_, err := NewWorkflow(api, journal, nil).Book(context.Background(), store, cal, sink, models.BookingInput{})
	if apiclient.KindOf(err) != apiclient.KindConflict {
		t.Fatalf("err = %v", err)
	}

	if got := sink.messages(); !reflect.DeepEqual(got, []string{"error:This time slot is already booked"}) {
		t.Fatalf("notices = %v", got)
	}
	view := cal.View()
	if !reflect.DeepEqual(view.Slots, []string{"09:00", "11:00"}) {
		t.Fatalf("calendar kept the stale list: %v", view.Slots)
	}
	if view.Selected != nil {
		t.Fatal("taken slot still shown as selected")
	}
	if src.fetches != 2 {
		t.Fatalf("expected a fresh fetch after the conflict, got %d fetches", src.fetches)
	}
	if s, _ := store.Load(context.Background()); s == nil {
		t.Fatal("a conflict must not end the session")
	}

	attempts, _ := journal.Recent(context.Background(), 10)
	if len(attempts) != 1 || attempts[0].Outcome != models.OutcomeConflict || attempts[0].Time != "10:00" {
		t.Fatalf("journal = %+v", attempts)
	}
}

func TestBookSuccess(t *testing.T) {
	src := &slotSource{slots: []string{"10:00", "11:00"}}
	cal := selectedCalendar(t, src, "2026-02-20", "10:00")
	_, pendingKey := cal.Selection()

	var sent models.BookSessionRequest
	api := &mockSessionsAPI{bookFn: func(_ context.Context, token string, in models.BookSessionRequest) (*models.TherapySession, error) {
		if token != "tok" {
			t.Errorf("token = %q", token)
		}
		sent = in
		src.mu.Lock()
		src.slots = []string{"11:00"}
		src.mu.Unlock()
		return &models.TherapySession{ID: 77, Status: models.StatusBooked}, nil
	}}
	journal := journalRepo.NewMemoryJournalRepo()
	sink := &recordingSink{}

	got, err := NewWorkflow(api, journal, nil).Book(context.Background(), loggedIn(t, models.RolePatient), cal, sink, models.BookingInput{Notes: "first visit"})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if got.ID != 77 {
		t.Fatalf("session = %+v", got)
	}

	want := models.BookSessionRequest{
		PractitionerID: 5,
		SessionDate:    "2026-02-20",
		StartTime:      "10:00",
		SessionType:    models.SessionOnline,
		Notes:          "first visit",
		RequestID:      pendingKey,
	}
	if sent != want {
		t.Fatalf("request = %+v, want %+v", sent, want)
	}
	if s, k := cal.Selection(); !s.IsZero() || k != "" {
		t.Fatal("selection not cleared after booking")
	}
	if view := cal.View(); !reflect.DeepEqual(view.Slots, []string{"11:00"}) || src.fetches != 2 {
		t.Fatalf("booked time still listed: slots=%v fetches=%d", view.Slots, src.fetches)
	}
	wantNotices := []string{"success:Session booked successfully!", "event:" + models.EventSessionsRefresh}
	if got := sink.messages(); !reflect.DeepEqual(got, wantNotices) {
		t.Fatalf("notices = %v", got)
	}
	attempts, _ := journal.Recent(context.Background(), 10)
	if len(attempts) != 1 || attempts[0].SessionID != 77 || attempts[0].ID != pendingKey {
		t.Fatalf("journal = %+v", attempts)
	}
}

func TestBookPreconditions(t *testing.T) {
	api := &mockSessionsAPI{bookFn: func(context.Context, string, models.BookSessionRequest) (*models.TherapySession, error) {
		t.Fatal("backend called despite failed precondition")
		return nil, nil
	}}
	w := NewWorkflow(api, nil, nil)
	store := loggedIn(t, models.RolePatient)

	empty := availability.NewCalendar(5, nil, &slotSource{}, func() time.Time { return today })
	if _, err := w.Book(context.Background(), store, empty, &recordingSink{}, models.BookingInput{}); !errors.Is(err, ErrNoSlotSelected) {
		t.Fatalf("err = %v", err)
	}

	cal := selectedCalendar(t, &slotSource{slots: []string{"10:00"}}, "2026-02-20", "10:00")
	if _, err := w.Book(context.Background(), store, cal, &recordingSink{}, models.BookingInput{SessionType: "PHONE"}); !errors.Is(err, ErrInvalidSessionType) {
		t.Fatalf("err = %v", err)
	}
}

func TestBookRejectsConcurrentDuplicate(t *testing.T) {
	cal := selectedCalendar(t, &slotSource{slots: []string{"10:00"}}, "2026-02-20", "10:00")
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &mockSessionsAPI{bookFn: func(context.Context, string, models.BookSessionRequest) (*models.TherapySession, error) {
		close(entered)
		<-release
		return &models.TherapySession{ID: 1}, nil
	}}
	w := NewWorkflow(api, nil, nil)
	store := loggedIn(t, models.RolePatient)

	done := make(chan error, 1)
	go func() {
		_, err := w.Book(context.Background(), store, cal, &recordingSink{}, models.BookingInput{})
		done <- err
	}()
	<-entered

	if _, err := w.Book(context.Background(), store, cal, &recordingSink{}, models.BookingInput{}); !errors.Is(err, ErrBookingInFlight) {
		t.Fatalf("duplicate submission err = %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submission: %v", err)
	}
}

func TestBookAuthFailureClearsSession(t *testing.T) {
	cal := selectedCalendar(t, &slotSource{slots: []string{"10:00"}}, "2026-02-20", "10:00")
	api := &mockSessionsAPI{bookFn: func(context.Context, string, models.BookSessionRequest) (*models.TherapySession, error) {
		return nil, &apiclient.Error{Kind: apiclient.KindAuthExpired, Status: 401, Message: "JWT expired"}
	}}
	store := loggedIn(t, models.RolePatient)

	_, err := NewWorkflow(api, nil, nil).Book(context.Background(), store, cal, &recordingSink{}, models.BookingInput{})
	if apiclient.KindOf(err) != apiclient.KindAuthExpired {
		t.Fatalf("err = %v", err)
	}
	if s, _ := store.Load(context.Background()); s != nil {
		t.Fatal("401 must clear the session")
	}
}

func TestBookNetworkFailureKeepsSelection(t *testing.T) {
	src := &slotSource{slots: []string{"10:00"}}
	cal := selectedCalendar(t, src, "2026-02-20", "10:00")
	api := &mockSessionsAPI{bookFn: func(context.Context, string, models.BookSessionRequest) (*models.TherapySession, error) {
		return nil, &apiclient.Error{Kind: apiclient.KindServer, Status: 502, Message: "Bad Gateway"}
	}}
	sink := &recordingSink{}

	_, _ = NewWorkflow(api, nil, nil).Book(context.Background(), loggedIn(t, models.RolePatient), cal, sink, models.BookingInput{})
	if s, _ := cal.Selection(); s.IsZero() {
		t.Fatal("server error must not change the selection")
	}
	if src.fetches != 1 {
		t.Fatal("server error must not refetch")
	}
	if got := sink.messages(); !reflect.DeepEqual(got, []string{"error:Booking failed. Please try again."}) {
		t.Fatalf("notices = %v", got)
	}
}

func TestCancelAlreadyCancelled(t *testing.T) {
	api := &mockSessionsAPI{
		userListFn: func(_ context.Context, _ string, userID int64) ([]models.TherapySession, error) {
			if userID != 11 {
				t.Errorf("userID = %d", userID)
			}
			return []models.TherapySession{{ID: 3, Status: models.StatusCancelled}}, nil
		},
		cancelFn: func(context.Context, string, int64, models.CancelSessionRequest) (*models.TherapySession, error) {
			t.Fatal("cancel sent for an already cancelled session")
			return nil, nil
		},
	}
	journal := journalRepo.NewMemoryJournalRepo()
	sink := &recordingSink{}

	_, err := NewWorkflow(api, journal, nil).Cancel(context.Background(), loggedIn(t, models.RolePatient), sink, 3, 0, "")
	if !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("err = %v", err)
	}
	if got := sink.messages(); !reflect.DeepEqual(got, []string{"error:Session is already cancelled"}) {
		t.Fatalf("notices = %v", got)
	}
	attempts, _ := journal.Recent(context.Background(), 1)
	if len(attempts) != 1 || attempts[0].Outcome != models.OutcomeRejected {
		t.Fatalf("journal = %+v", attempts)
	}
}

func TestCancelCompleted(t *testing.T) {
	api := &mockSessionsAPI{userListFn: func(context.Context, string, int64) ([]models.TherapySession, error) {
		return []models.TherapySession{{ID: 3, Status: models.StatusCompleted}}, nil
	}}
	_, err := NewWorkflow(api, nil, nil).Cancel(context.Background(), loggedIn(t, models.RolePatient), &recordingSink{}, 3, 0, "")
	if !errors.Is(err, ErrSessionCompleted) {
		t.Fatalf("err = %v", err)
	}
}

func TestCancelByPractitioner(t *testing.T) {
	var sent models.CancelSessionRequest
	api := &mockSessionsAPI{
		practitionerFn: func(_ context.Context, _ string, pid int64) ([]models.TherapySession, error) {
			if pid != 5 {
				t.Errorf("pid = %d", pid)
			}
			return []models.TherapySession{{ID: 3, PractitionerID: 5, Status: models.StatusBooked}}, nil
		},
		cancelFn: func(_ context.Context, _ string, id int64, in models.CancelSessionRequest) (*models.TherapySession, error) {
			sent = in
			return &models.TherapySession{ID: id, Status: models.StatusCancelled, CancelledBy: in.CancelledBy}, nil
		},
	}
	sink := &recordingSink{}

	got, err := NewWorkflow(api, nil, nil).Cancel(context.Background(), loggedIn(t, models.RolePractitioner), sink, 3, 5, "")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.Status != models.StatusCancelled || sent.CancelledBy != "PRACTITIONER" || sent.Reason == "" {
		t.Fatalf("got %+v, sent %+v", got, sent)
	}
	if len(sink.messages()) != 2 {
		t.Fatalf("notices = %v", sink.messages())
	}
}

func TestCancelByAdminNeedsScope(t *testing.T) {
	_, err := NewWorkflow(&mockSessionsAPI{}, nil, nil).Cancel(context.Background(), loggedIn(t, models.RoleAdmin), &recordingSink{}, 3, 0, "")
	if !errors.Is(err, ErrLookupScope) {
		t.Fatalf("err = %v", err)
	}
}

func TestRescheduleOnlyBooked(t *testing.T) {
	for _, status := range []models.SessionStatus{models.StatusCancelled, models.StatusCompleted, models.StatusRescheduled} {
		t.Run(string(status), func(t *testing.T) {
			api := &mockSessionsAPI{
				userListFn: func(context.Context, string, int64) ([]models.TherapySession, error) {
					return []models.TherapySession{{ID: 3, Status: status}}, nil
				},
				rescheduleFn: func(context.Context, string, int64, models.RescheduleSessionRequest) (*models.TherapySession, error) {
					t.Fatal("reschedule sent for a non-booked session")
					return nil, nil
				},
			}
			_, err := NewWorkflow(api, nil, nil).Reschedule(context.Background(), loggedIn(t, models.RolePatient), &recordingSink{}, 3, 0, "2026-03-01", "10:00", "")
			if !errors.Is(err, ErrNotReschedulable) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestRescheduleReflectsBackend(t *testing.T) {
	api := &mockSessionsAPI{
		userListFn: func(context.Context, string, int64) ([]models.TherapySession, error) {
			return []models.TherapySession{{ID: 3, Status: models.StatusBooked}}, nil
		},
		rescheduleFn: func(_ context.Context, _ string, id int64, in models.RescheduleSessionRequest) (*models.TherapySession, error) {
			if in.NewSessionDate != "2026-03-01" || in.NewStartTime != "10:00" {
				t.Errorf("request = %+v", in)
			}
			return &models.TherapySession{ID: 4, Status: models.StatusBooked, SessionDate: in.NewSessionDate}, nil
		},
	}
	got, err := NewWorkflow(api, nil, nil).Reschedule(context.Background(), loggedIn(t, models.RolePatient), &recordingSink{}, 3, 0, "2026-03-01", "10:00", "conflict")
	if err != nil || got.ID != 4 {
		t.Fatalf("Reschedule = %+v, %v", got, err)
	}

	if _, err := NewWorkflow(api, nil, nil).Reschedule(context.Background(), loggedIn(t, models.RolePatient), &recordingSink{}, 3, 0, "", "10:00", ""); !errors.Is(err, ErrRescheduleTarget) {
		t.Fatalf("missing date err = %v", err)
	}
}

func TestCancelledBy(t *testing.T) {
	cases := map[models.Role]string{
		models.RolePatient:      "USER",
		models.RolePractitioner: "PRACTITIONER",
		models.RoleAdmin:        "ADMIN",
	}
	for role, want := range cases {
		if got := CancelledBy(role); got != want {
			t.Errorf("CancelledBy(%s) = %s, want %s", role, got, want)
		}
	}
}
