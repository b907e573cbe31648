package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"

	"calbot/internal/logger"
	"calbot/internal/scheduling"
)

// ListEventsArgs represents the arguments for the list_events tool
type ListEventsArgs struct {
	Email string `json:"email"`
}

// ListEventsTool retrieves a user's scheduled bookings by attendee email.
type ListEventsTool struct {
	BaseTool
	client *scheduling.Client
	notify func(string)
}

// NewListEventsTool creates the list_events tool backed by the given client.
// notify, if non-nil, receives transient progress messages.
func NewListEventsTool(client *scheduling.Client, notify func(string)) *ListEventsTool {
	params := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"email": {
				Type:        jsonschema.String,
				Description: "The user's email address",
			},
		},
		Required: []string{"email"},
	}

	return &ListEventsTool{
		BaseTool: BaseTool{
			ToolName:        "list_events",
			ToolDescription: "List scheduled events for a user. Ask the user to append their email to their input if the email is not provided.",
			ToolParameters:  params,
		},
		client: client,
		notify: notify,
	}
}

// Execute looks up the bookings and returns the provider's JSON payload.
// Provider failures are returned as an {error, details} result rather than an
// error so the model can relay them.
func (t *ListEventsTool) Execute(ctx context.Context, args string) (string, error) {
	var params ListEventsArgs

	if err := json.Unmarshal([]byte(args), &params); err != nil {
		logger.Errorf("Failed to parse list_events args: %v", err)
		return "", fmt.Errorf("invalid arguments: %v", err)
	}

	if params.Email == "" {
		return "", fmt.Errorf("email is required")
	}

	t.status("Checking for scheduled events...")

	result, err := t.client.ListBookings(ctx, params.Email)
	if err != nil {
		logger.Warnf("Listing bookings failed: %v", err)
		return ErrorResult(err), nil
	}

	return result, nil
}

func (t *ListEventsTool) status(message string) {
	if t.notify != nil {
		t.notify(message)
	}
}
