package tools

import (
	"encoding/json"
	"errors"

	"calbot/internal/scheduling"
)

// ErrorPayload is the structured error fed back to the model as a tool
// result. The model relays it to the user in prose; the turn never aborts.
type ErrorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// ErrorResult serializes err into an {error, details} JSON string, labelling
// HTTP failures, transport failures and everything else distinctly.
func ErrorResult(err error) string {
	label := "An unexpected error occurred"
	switch {
	case errors.Is(err, scheduling.ErrHTTPStatus):
		label = "HTTP error occurred"
	case errors.Is(err, scheduling.ErrTransport):
		label = "Request exception"
	}

	payload, marshalErr := json.Marshal(ErrorPayload{Error: label, Details: err.Error()})
	if marshalErr != nil {
		return `{"error":"An unexpected error occurred","details":"error payload could not be encoded"}`
	}

	return string(payload)
}
