package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"

	"calbot/internal/logger"
	"calbot/internal/scheduling"
)

// CreateEventArgs represents the arguments for the create_event tool
type CreateEventArgs struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
	Timezone string `json:"timezone"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// CreateEventTool books a slot after confirming it is available. The attendee
// identity always comes from the conversation, never from a default.
type CreateEventTool struct {
	BaseTool
	client *scheduling.Client
	notify func(string)
}

// NewCreateEventTool creates the create_event tool backed by the given client.
// notify, if non-nil, receives transient progress messages.
func NewCreateEventTool(client *scheduling.Client, notify func(string)) *CreateEventTool {
	params := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"date": {
				Type:        jsonschema.String,
				Description: "The date must be provided in YYYY-MM-DD format.",
			},
			"time": {
				Type:        jsonschema.String,
				Description: "The time of the event in HH:MM format",
			},
			"reason": {
				Type:        jsonschema.String,
				Description: "The event reason",
			},
			"timezone": {
				Type:        jsonschema.String,
				Description: "The time zone of the attendee in IANA format. Eg: America/New_York",
			},
			"name": {
				Type:        jsonschema.String,
				Description: "The attendee's full name",
			},
			"email": {
				Type:        jsonschema.String,
				Description: "The attendee's email address",
			},
		},
		Required: []string{"date", "time", "reason", "timezone", "name", "email"},
	}

	return &CreateEventTool{
		BaseTool: BaseTool{
			ToolName: "create_event",
			ToolDescription: "Create a new event. Do not assume any of the parameters; ask the user for missing ones, " +
				"including their name and email. The date and time must be provided in YYYY-MM-DD and HH:MM format " +
				"respectively. Relative terms like 'tomorrow' are not accepted and do not provide any suggestions on dates.",
			ToolParameters: params,
		},
		client: client,
		notify: notify,
	}
}

func (a *CreateEventArgs) validate() error {
	var missing []string
	for field, value := range map[string]string{
		"date":     a.Date,
		"time":     a.Time,
		"reason":   a.Reason,
		"timezone": a.Timezone,
		"name":     a.Name,
		"email":    a.Email,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required parameters: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Execute checks the slot and books it when available. Unavailable slots and
// provider failures come back as JSON results for the model to relay; only
// malformed arguments surface as an error.
func (t *CreateEventTool) Execute(ctx context.Context, args string) (string, error) {
	var params CreateEventArgs

	if err := json.Unmarshal([]byte(args), &params); err != nil {
		logger.Errorf("Failed to parse create_event args: %v", err)
		return "", fmt.Errorf("invalid arguments: %v", err)
	}

	if err := params.validate(); err != nil {
		return "", err
	}

	t.status("Checking slot availability...")

	result, err := t.client.CreateBooking(ctx, scheduling.BookingRequest{
		Date:          params.Date,
		Time:          params.Time,
		Reason:        params.Reason,
		Timezone:      params.Timezone,
		AttendeeName:  params.Name,
		AttendeeEmail: params.Email,
	})
	if err != nil {
		logger.Warnf("Creating booking failed: %v", err)
		return ErrorResult(err), nil
	}

	return result, nil
}

func (t *CreateEventTool) status(message string) {
	if t.notify != nil {
		t.notify(message)
	}
}
