package scheduling

// Availability is the outcome of a slot availability check.
// When Available is false, Message carries the human-readable reason.
type Availability struct {
	Available bool
	SlotTime  string
	Message   string
}

// BookingRequest carries everything needed to create one booking.
// Attendee identity is always supplied by the caller, never defaulted.
type BookingRequest struct {
	Date          string
	Time          string
	Reason        string
	Timezone      string
	AttendeeName  string
	AttendeeEmail string
}

type slotsResponse struct {
	Slots map[string][]map[string]string `json:"slots"`
}

type bookingLocation struct {
	Value       string `json:"value"`
	OptionValue string `json:"optionValue"`
}

type bookingResponses struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Location bookingLocation `json:"location"`
}

type bookingPayload struct {
	EventTypeID int               `json:"eventTypeId"`
	Start       string            `json:"start"`
	Responses   bookingResponses  `json:"responses"`
	Metadata    map[string]string `json:"metadata"`
	TimeZone    string            `json:"timeZone"`
	Language    string            `json:"language"`
	Title       string            `json:"title"`
	Status      string            `json:"status"`
}
