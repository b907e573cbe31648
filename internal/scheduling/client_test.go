package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	slotsJSON     string
	slotsStatus   int
	bookingJSON   string
	bookingStatus int

	slotCalls    int
	bookingGets  int
	bookingPosts int
	lastBookBody []byte
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/slots", func(w http.ResponseWriter, r *http.Request) {
		f.slotCalls++
		status := f.slotsStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		fmt.Fprint(w, f.slotsJSON)
	})
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			f.bookingPosts++
			f.lastBookBody, _ = io.ReadAll(r.Body)
		} else {
			f.bookingGets++
		}
		status := f.bookingStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		fmt.Fprint(w, f.bookingJSON)
	})
	return mux
}

func newTestClient(t *testing.T, provider *fakeProvider) *Client {
	t.Helper()
	srv := httptest.NewServer(provider.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 885994, 5*time.Second)
}

func TestCheckSlotAvailability_MatchingSlot(t *testing.T) {
	provider := &fakeProvider{
		slotsJSON: `{"slots":{"2025-03-10":[{"time":"2025-03-10T13:00:00+00:00"},{"time":"2025-03-10T14:00:00+00:00"}]}}`,
	}
	client := newTestClient(t, provider)

	availability, err := client.CheckSlotAvailability(context.Background(), "2025-03-10", "14:00", "UTC")
	require.NoError(t, err)

	assert.True(t, availability.Available)
	assert.Equal(t, "2025-03-10T14:00:00+00:00", availability.SlotTime)
	assert.Empty(t, availability.Message)
}

func TestCheckSlotAvailability_MatchesByInstantAcrossOffsets(t *testing.T) {
	// Provider timestamps carry a non-UTC offset; the requested local time in
	// New York refers to the same instant and must still match.
	provider := &fakeProvider{
		slotsJSON: `{"slots":{"2025-03-10":[{"time":"2025-03-10T15:00:00-04:00"}]}}`,
	}
	client := newTestClient(t, provider)

	availability, err := client.CheckSlotAvailability(context.Background(), "2025-03-10", "15:00", "America/New_York")
	require.NoError(t, err)

	assert.True(t, availability.Available)
	assert.Equal(t, "2025-03-10T15:00:00-04:00", availability.SlotTime)
}

func TestCheckSlotAvailability_NoSlotsReturned(t *testing.T) {
	provider := &fakeProvider{
		slotsJSON: `{"slots":{}}`,
	}
	client := newTestClient(t, provider)

	availability, err := client.CheckSlotAvailability(context.Background(), "2025-03-10", "14:00", "UTC")
	require.NoError(t, err)

	assert.False(t, availability.Available)
	assert.Empty(t, availability.SlotTime)
	assert.Contains(t, availability.Message, "No slots are available")
}

func TestCheckSlotAvailability_SlotNotOffered(t *testing.T) {
	provider := &fakeProvider{
		slotsJSON: `{"slots":{"2025-03-10":[{"time":"2025-03-10T09:00:00+00:00"}]}}`,
	}
	client := newTestClient(t, provider)

	availability, err := client.CheckSlotAvailability(context.Background(), "2025-03-10", "14:00", "UTC")
	require.NoError(t, err)

	assert.False(t, availability.Available)
	assert.Equal(t, "The requested slot is unavailable.", availability.Message)
}

func TestCheckSlotAvailability_InvalidTimezone(t *testing.T) {
	provider := &fakeProvider{slotsJSON: `{"slots":{}}`}
	client := newTestClient(t, provider)

	_, err := client.CheckSlotAvailability(context.Background(), "2025-03-10", "14:00", "Not/AZone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
	assert.Zero(t, provider.slotCalls, "provider should not be queried with a bad timezone")
}

func TestCheckSlotAvailability_ProviderError(t *testing.T) {
	provider := &fakeProvider{
		slotsJSON:   `{"message":"internal error"}`,
		slotsStatus: http.StatusInternalServerError,
	}
	client := newTestClient(t, provider)

	_, err := client.CheckSlotAvailability(context.Background(), "2025-03-10", "14:00", "UTC")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHTTPStatus))
}

func TestCreateBooking_SkipsWriteWhenUnavailable(t *testing.T) {
	provider := &fakeProvider{
		slotsJSON: `{"slots":{}}`,
	}
	client := newTestClient(t, provider)

	result, err := client.CreateBooking(context.Background(), BookingRequest{
		Date:          "2025-03-10",
		Time:          "14:00",
		Reason:        "demo",
		Timezone:      "America/New_York",
		AttendeeName:  "Alice Smith",
		AttendeeEmail: "alice@example.com",
	})
	require.NoError(t, err)

	assert.Zero(t, provider.bookingPosts, "no booking POST may be issued for an unavailable slot")

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(result), &payload))
	assert.Contains(t, payload["message"], "No slots are available")
}

func TestCreateBooking_Success(t *testing.T) {
	provider := &fakeProvider{
		slotsJSON:   `{"slots":{"2025-03-10":[{"time":"2025-03-10T14:00:00+00:00"}]}}`,
		bookingJSON: `{"id":123,"title":"demo","status":"ACCEPTED"}`,
	}
	client := newTestClient(t, provider)

	result, err := client.CreateBooking(context.Background(), BookingRequest{
		Date:          "2025-03-10",
		Time:          "14:00",
		Reason:        "demo",
		Timezone:      "UTC",
		AttendeeName:  "Alice Smith",
		AttendeeEmail: "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.bookingPosts)

	// The write must carry the confirmed slot and the real attendee identity.
	var sent bookingPayload
	require.NoError(t, json.Unmarshal(provider.lastBookBody, &sent))
	assert.Equal(t, 885994, sent.EventTypeID)
	assert.Equal(t, "2025-03-10T14:00:00+00:00", sent.Start)
	assert.Equal(t, "Alice Smith", sent.Responses.Name)
	assert.Equal(t, "alice@example.com", sent.Responses.Email)
	assert.Equal(t, "integrations:calcom", sent.Responses.Location.Value)
	assert.Equal(t, "demo", sent.Title)
	assert.Equal(t, "ACCEPTED", sent.Status)
	assert.Equal(t, "en", sent.Language)

	// The confirmation must round-trip as JSON and keep the reason as title.
	var confirmation map[string]any
	require.NoError(t, json.Unmarshal([]byte(result), &confirmation))
	assert.Equal(t, "demo", confirmation["title"])
}

func TestCreateBooking_ProviderRejectsWrite(t *testing.T) {
	provider := &fakeProvider{
		slotsJSON:     `{"slots":{"2025-03-10":[{"time":"2025-03-10T14:00:00+00:00"}]}}`,
		bookingJSON:   `{"message":"event type not found"}`,
		bookingStatus: http.StatusBadRequest,
	}
	client := newTestClient(t, provider)

	_, err := client.CreateBooking(context.Background(), BookingRequest{
		Date:          "2025-03-10",
		Time:          "14:00",
		Reason:        "demo",
		Timezone:      "UTC",
		AttendeeName:  "Alice Smith",
		AttendeeEmail: "alice@example.com",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHTTPStatus))
}

func TestListBookings_Success(t *testing.T) {
	provider := &fakeProvider{
		bookingJSON: `{"bookings":[{"id":1,"title":"standup"}]}`,
	}
	client := newTestClient(t, provider)

	result, err := client.ListBookings(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.bookingGets)
	assert.JSONEq(t, provider.bookingJSON, result)
}

func TestListBookings_ProviderError(t *testing.T) {
	provider := &fakeProvider{
		bookingJSON:   `{"message":"forbidden"}`,
		bookingStatus: http.StatusForbidden,
	}
	client := newTestClient(t, provider)

	_, err := client.ListBookings(context.Background(), "alice@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHTTPStatus))
}

func TestListBookings_TransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key", 885994, time.Second)

	_, err := client.ListBookings(context.Background(), "alice@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}
