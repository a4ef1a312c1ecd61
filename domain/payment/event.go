/*
Package payment describes the inbound payment notifications the order service reacts to.
*/
package payment

import (
	"encoding/json"
	"strings"
)

// Status payment status reported by the payment service
type Status string

const (
	StatusCreated Status = "CREATED"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
	StatusUnknown Status = "UNKNOWN"
)

// ParseStatus matches case-insensitively; anything unrecognized is StatusUnknown
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(StatusCreated):
		return StatusCreated
	case string(StatusPaid):
		return StatusPaid
	case string(StatusFailed):
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// UnmarshalJSON never fails: null, numbers, objects and unknown names all decode to StatusUnknown
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		*s = StatusUnknown
		return nil
	}
	*s = ParseStatus(name)
	return nil
}

// UnmarshalText never fails: unknown wire values decode to StatusUnknown
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}

// MarshalText writes the canonical name
func (s Status) MarshalText() ([]byte, error) {
	if s == "" {
		return []byte(StatusUnknown), nil
	}
	return []byte(s), nil
}

// Event payment notification for an order
type Event struct {
	OrderID string `json:"orderId"`
	Status  Status `json:"status"`
}

// UnmarshalJSON decodes the payload; a missing status is StatusUnknown
func (e *Event) UnmarshalJSON(data []byte) error {
	type wire Event
	w := wire{Status: StatusUnknown}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Event(w)
	return nil
}

// IsPaid reports whether the event confirms the payment
func (e Event) IsPaid() bool {
	return e.Status == StatusPaid
}
