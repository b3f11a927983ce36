package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wellportal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, nil)
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status  int
		body    string
		kind    ErrorKind
		message string
	}{
		{http.StatusUnauthorized, `{"message":"Token expired"}`, KindAuthExpired, "Token expired"},
		{http.StatusForbidden, `{"error":"Forbidden"}`, KindAuthorizationDenied, "Forbidden"},
		{http.StatusBadRequest, `{"message":"Invalid date"}`, KindValidation, "Invalid date"},
		{http.StatusUnprocessableEntity, `{}`, KindValidation, "Unprocessable Entity"},
		{http.StatusBadRequest, `{"errors":{"sessionDate":"must not be null"}}`, KindValidation, "Bad Request"},
		{http.StatusConflict, `{"message":"Slot already booked"}`, KindConflict, "Slot already booked"},
		{http.StatusNotFound, `not json`, KindNotFound, "not json"},
		{http.StatusInternalServerError, ``, KindServer, "Internal Server Error"},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.AvailableSlots(context.Background(), "tok", 1, "2030-01-01")
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if apiErr.Kind != tc.kind || apiErr.Status != tc.status || apiErr.Message != tc.message {
				t.Fatalf("got %+v", apiErr)
			}
			if KindOf(err) != tc.kind {
				t.Fatalf("KindOf = %q", KindOf(err))
			}
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, nil)
	_, err := c.Availability(context.Background(), 7)
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(block) })

	c := NewClient(srv.URL, 50*time.Millisecond, nil)
	err := c.Ping(context.Background())
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected network error on timeout, got %v", err)
	}
	if !IsTimeout(err) {
		t.Fatalf("expected a timeout, got %v", err)
	}
}

func TestBookSessionSendsIdempotencyKey(t *testing.T) {
	var gotHeader, gotAuth string
	var gotBody models.BookSessionRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sessions/book" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		gotHeader = r.Header.Get(IdempotencyHeader)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(models.TherapySession{ID: 9, Status: models.StatusBooked})
	})

	in := models.BookSessionRequest{
		PractitionerID: 3,
		SessionDate:    "2030-01-01",
		StartTime:      "10:00",
		SessionType:    models.SessionOnline,
		RequestID:      "req-1",
	}
	session, err := c.BookSession(context.Background(), "tok", in)
	if err != nil {
		t.Fatalf("BookSession: %v", err)
	}
	if session.ID != 9 {
		t.Fatalf("session = %+v", session)
	}
	if gotHeader != "req-1" || gotBody.RequestID != "req-1" {
		t.Fatalf("idempotency key header=%q body=%q", gotHeader, gotBody.RequestID)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestRefreshUsesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/refresh" || r.URL.Query().Get("refreshToken") != "r1" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_ = json.NewEncoder(w).Encode(models.AuthResponse{AccessToken: "a2", RefreshToken: "r2"})
	})

	out, err := c.Refresh(context.Background(), "r1")
	if err != nil || out.AccessToken != "a2" {
		t.Fatalf("Refresh = %+v, %v", out, err)
	}
}

func TestIsRejection(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&Error{Kind: KindConflict, Status: 409}, true},
		{&Error{Kind: KindValidation, Status: 400}, true},
		{&Error{Kind: KindServer, Status: 418}, true},
		{&Error{Kind: KindServer, Status: 500}, false},
		{&Error{Kind: KindAuthExpired, Status: 401}, false},
		{&Error{Kind: KindNetwork}, false},
		{errors.New("plain"), false},
	}
	for _, tc := range cases {
		if got := IsRejection(tc.err); got != tc.want {
			t.Errorf("IsRejection(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestPingTreatsClientErrorsAsUp(t *testing.T) {
	for _, tc := range []struct {
		status int
		up     bool
	}{
		{http.StatusOK, true},
		{http.StatusNotFound, true},
		{http.StatusUnauthorized, true},
		{http.StatusServiceUnavailable, false},
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})
		if err := c.Ping(context.Background()); (err == nil) != tc.up {
			t.Errorf("status %d: Ping() = %v, want up=%v", tc.status, err, tc.up)
		}
	}
}
