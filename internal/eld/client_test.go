package eld_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-service/internal/eld"
	"hos-service/internal/model"
)

func TestClient_FetchEvents_MapsProviderPayload(t *testing.T) {
	driverID := uuid.New()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/drivers/"+driverID.String()+"/duty-events", r.URL.Path)
		assert.Equal(t, "2025-03-10", r.URL.Query().Get("date"))
		assert.Equal(t, "Bearer provider-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"events": [
				{"status": "OFF_DUTY", "timestamp": "2025-03-10T00:00:00Z", "odometer": 120410.5},
				{"status": "DRIVING", "timestamp": "2025-03-10T08:00:00+02:00", "latitude": 43.238, "longitude": 76.889}
			]
		}`))
	}))
	defer server.Close()

	client := eld.NewClient(server.URL, "provider-token", 5*time.Second)
	events, err := client.FetchEvents(context.Background(), driverID, day)

	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, model.DutyStatusOffDuty, events[0].Status)
	require.NotNil(t, events[0].Odometer)
	assert.InDelta(t, 120410.5, *events[0].Odometer, 0.001)

	assert.Equal(t, model.DutyStatusDriving, events[1].Status)
	// Provider timestamps come back normalized to UTC.
	assert.Equal(t, time.UTC, events[1].Timestamp.Location())
	assert.Equal(t, time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC), events[1].Timestamp)
}

func TestClient_FetchEvents_UnknownStatusRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"events": [{"status": "NAPPING", "timestamp": "2025-03-10T00:00:00Z"}]}`))
	}))
	defer server.Close()

	client := eld.NewClient(server.URL, "provider-token", 5*time.Second)
	_, err := client.FetchEvents(context.Background(), uuid.New(), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAPPING")
}

func TestClient_FetchEvents_MissingTimestampRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"events": [{"status": "DRIVING"}]}`))
	}))
	defer server.Close()

	client := eld.NewClient(server.URL, "provider-token", 5*time.Second)
	_, err := client.FetchEvents(context.Background(), uuid.New(), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp")
}

func TestClient_FetchEvents_ProviderErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := eld.NewClient(server.URL, "provider-token", 5*time.Second)
	_, err := client.FetchEvents(context.Background(), uuid.New(), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_FetchEvents_EmptyDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"events": []}`))
	}))
	defer server.Close()

	client := eld.NewClient(server.URL, "provider-token", 5*time.Second)
	events, err := client.FetchEvents(context.Background(), uuid.New(), time.Now())

	require.NoError(t, err)
	assert.Empty(t, events)
}
