package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"wellportal/models"
)

// IdempotencyHeader carries the client-generated booking request id.
const IdempotencyHeader = "Idempotency-Key"

// AvailableSlots returns the backend's free start times for one date as-is.
func (c *Client) AvailableSlots(ctx context.Context, token string, practitionerID int64, date string) ([]string, error) {
	var out []string
	req := request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/sessions/%d/slots", practitionerID),
		query:  url.Values{"date": {date}},
		token:  token,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookSession submits a booking. in.RequestID is also sent as the
// Idempotency-Key header.
func (c *Client) BookSession(ctx context.Context, token string, in models.BookSessionRequest) (*models.TherapySession, error) {
	var out models.TherapySession
	req := request{
		method: http.MethodPost,
		path:   "/api/sessions/book",
		token:  token,
		body:   in,
	}
	if in.RequestID != "" {
		req.header = http.Header{IdempotencyHeader: {in.RequestID}}
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelSession(ctx context.Context, token string, sessionID int64, in models.CancelSessionRequest) (*models.TherapySession, error) {
	var out models.TherapySession
	req := request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/sessions/%d/cancel", sessionID),
		token:  token,
		body:   in,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RescheduleSession(ctx context.Context, token string, sessionID int64, in models.RescheduleSessionRequest) (*models.TherapySession, error) {
	var out models.TherapySession
	req := request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/sessions/%d/reschedule", sessionID),
		token:  token,
		body:   in,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserSessions lists every session booked by a patient.
func (c *Client) UserSessions(ctx context.Context, token string, userID int64) ([]models.TherapySession, error) {
	var out []models.TherapySession
	req := request{method: http.MethodGet, path: fmt.Sprintf("/api/sessions/user/%d", userID), token: token}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PractitionerSessions lists every session held by a practitioner.
func (c *Client) PractitionerSessions(ctx context.Context, token string, practitionerID int64) ([]models.TherapySession, error) {
	var out []models.TherapySession
	req := request{method: http.MethodGet, path: fmt.Sprintf("/api/sessions/practitioner/%d", practitionerID), token: token}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
