package order

import "strings"

// Status Order status enum
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusReturned  Status = "RETURNED"
	StatusRefunded  Status = "REFUNDED"
	StatusFailed    Status = "FAILED"
	StatusCanceled  Status = "CANCELED"
)

var allStatuses = []Status{
	StatusCreated,
	StatusPaid,
	StatusShipped,
	StatusDelivered,
	StatusReturned,
	StatusRefunded,
	StatusFailed,
	StatusCanceled,
}

// Statuses lists every status in declaration order
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus matches s case-insensitively. ok is false when nothing matches.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range allStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// ParseStatuses parses every name and silently drops the unrecognized ones.
// Duplicates are collapsed.
func ParseStatuses(names []string) []Status {
	seen := make(map[Status]struct{}, len(names))
	out := make([]Status, 0, len(names))
	for _, n := range names {
		st, ok := ParseStatus(n)
		if !ok {
			continue
		}
		if _, dup := seen[st]; dup {
			continue
		}
		seen[st] = struct{}{}
		out = append(out, st)
	}
	return out
}

func (s Status) String() string { return string(s) }

