// Package eld is the adapter for the external ELD provider. It pulls a
// driver's raw duty-status change events for one day and maps them into the
// domain shape; time-zone normalization and malformed-status rejection
// happen here, so downstream code sees only comparable timestamps and a
// closed status enumeration.
package eld

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"hos-service/internal/model"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type providerEvent struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Address     *string   `json:"address"`
	Odometer    *float64  `json:"odometer"`
	EngineHours *float64  `json:"engine_hours"`
}

type eventsResponse struct {
	Events []providerEvent `json:"events"`
}

func (c *Client) FetchEvents(ctx context.Context, driverID uuid.UUID, date time.Time) ([]model.DutyStatusEvent, error) {
	endpoint := fmt.Sprintf("%s/v1/drivers/%s/duty-events?date=%s",
		c.baseURL, driverID, url.QueryEscape(date.Format("2006-01-02")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eld provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eld provider returned status %d", resp.StatusCode)
	}

	var payload eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode eld payload: %w", err)
	}

	events := make([]model.DutyStatusEvent, 0, len(payload.Events))
	for _, pe := range payload.Events {
		status, err := model.ParseDutyStatus(pe.Status)
		if err != nil {
			return nil, fmt.Errorf("eld payload: %w", err)
		}
		if pe.Timestamp.IsZero() {
			return nil, fmt.Errorf("eld payload: event without timestamp")
		}
		events = append(events, model.DutyStatusEvent{
			Status:      status,
			Timestamp:   pe.Timestamp.UTC(),
			Latitude:    pe.Latitude,
			Longitude:   pe.Longitude,
			Address:     pe.Address,
			Odometer:    pe.Odometer,
			EngineHours: pe.EngineHours,
		})
	}
	return events, nil
}
