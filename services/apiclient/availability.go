package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"wellportal/models"
)

// Availability lists a practitioner's weekly windows. No token is needed.
func (c *Client) Availability(ctx context.Context, practitionerID int64) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	req := request{method: http.MethodGet, path: fmt.Sprintf("/api/availability/%d", practitionerID)}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetAvailability creates or replaces the window for one weekday.
func (c *Client) SetAvailability(ctx context.Context, token string, practitionerID int64, w models.AvailabilityWindow) (*models.AvailabilityWindow, error) {
	var out models.AvailabilityWindow
	req := request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/availability/%d", practitionerID),
		token:  token,
		body:   w,
	}
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
