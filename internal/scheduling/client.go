// Package scheduling implements the Cal.com REST client used by the
// assistant's tools: listing bookings, checking slot availability, and
// creating bookings.
package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"calbot/internal/logger"
)

const (
	dayWindowStart = "T00:00:00.000Z"
	dayWindowEnd   = "T23:45:00.000Z"

	msgSlotUnavailable = "The requested slot is unavailable."
)

// Sentinel errors classifying provider failures. Wrapped into every error the
// client returns so callers can report HTTP failures, transport failures and
// response decoding failures distinctly.
var (
	ErrHTTPStatus  = errors.New("HTTP error occurred")
	ErrTransport   = errors.New("request exception")
	ErrBadResponse = errors.New("unexpected response")
)

// Client talks to the Cal.com v1 REST API. All operations are fail-closed:
// a transport or decode failure never results in a booking attempt.
type Client struct {
	baseURL     string
	apiKey      string
	eventTypeID int
	httpClient  *http.Client
}

func NewClient(baseURL, apiKey string, eventTypeID int, timeout time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		eventTypeID: eventTypeID,
		httpClient:  CreateHTTPClient(timeout),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrBadResponse, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s: %s", ErrHTTPStatus, resp.Status, string(body))
	}

	return body, nil
}

// ListBookings retrieves the bookings filtered by attendee email and returns
// the provider's JSON payload verbatim.
func (c *Client) ListBookings(ctx context.Context, email string) (string, error) {
	logger.Debugf("Listing bookings for %s", email)

	query := url.Values{}
	query.Set("attendeeEmail", email)
	query.Set("apiKey", c.apiKey)

	body, err := c.get(ctx, "/bookings", query)
	if err != nil {
		return "", err
	}

	if !json.Valid(body) {
		return "", fmt.Errorf("%w: invalid JSON in bookings response", ErrBadResponse)
	}

	return string(body), nil
}

// CheckSlotAvailability queries the provider's open slots for the given date
// and reports whether the requested local time matches one of them. Matching
// compares parsed instants rather than timestamp strings, so slots carrying
// mixed UTC offsets (e.g. across a DST change) are handled correctly.
func (c *Client) CheckSlotAvailability(ctx context.Context, date, timeOfDay, timezone string) (Availability, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Availability{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	requested, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, loc)
	if err != nil {
		return Availability{}, fmt.Errorf("invalid date/time %q %q: %w", date, timeOfDay, err)
	}

	query := url.Values{}
	query.Set("apiKey", c.apiKey)
	query.Set("eventTypeId", fmt.Sprintf("%d", c.eventTypeID))
	query.Set("startTime", date+dayWindowStart)
	query.Set("endTime", date+dayWindowEnd)
	query.Set("timeZone", timezone)

	body, err := c.get(ctx, "/slots", query)
	if err != nil {
		return Availability{}, err
	}

	var slots slotsResponse
	if err := json.Unmarshal(body, &slots); err != nil {
		return Availability{}, fmt.Errorf("%w: decoding slots: %v", ErrBadResponse, err)
	}

	daySlots := slots.Slots[date]
	if len(daySlots) == 0 {
		return Availability{
			Available: false,
			Message:   fmt.Sprintf("No slots are available on %s.", date),
		}, nil
	}

	for _, slot := range daySlots {
		for _, raw := range slot {
			slotTime, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				logger.Warnf("Skipping unparsable slot timestamp %q: %v", raw, err)
				continue
			}
			if slotTime.Equal(requested) {
				return Availability{
					Available: true,
					SlotTime:  raw,
				}, nil
			}
		}
	}

	return Availability{
		Available: false,
		Message:   msgSlotUnavailable,
	}, nil
}

// CreateBooking books the requested slot. The slot is checked first and the
// write is skipped entirely when it is not confirmed available; in that case
// the returned JSON carries the availability message for the model to relay.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (string, error) {
	availability, err := c.CheckSlotAvailability(ctx, req.Date, req.Time, req.Timezone)
	if err != nil {
		return "", err
	}

	if !availability.Available {
		result, err := json.Marshal(map[string]string{"message": availability.Message})
		if err != nil {
			return "", fmt.Errorf("encoding availability message: %w", err)
		}
		return string(result), nil
	}

	logger.Debugf("Slot %s is available, booking event", availability.SlotTime)

	payload := bookingPayload{
		EventTypeID: c.eventTypeID,
		Start:       availability.SlotTime,
		Responses: bookingResponses{
			Name:  req.AttendeeName,
			Email: req.AttendeeEmail,
			Location: bookingLocation{
				Value:       "integrations:calcom",
				OptionValue: "",
			},
		},
		Metadata: map[string]string{},
		TimeZone: req.Timezone,
		Language: "en",
		Title:    req.Reason,
		Status:   "ACCEPTED",
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding booking payload: %w", err)
	}

	reqURL := c.baseURL + "/bookings?apiKey=" + url.QueryEscape(c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrBadResponse, err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: %s: %s", ErrHTTPStatus, resp.Status, string(respBody))
	}

	if !json.Valid(respBody) {
		return "", fmt.Errorf("%w: invalid JSON in booking response", ErrBadResponse)
	}

	return string(respBody), nil
}
