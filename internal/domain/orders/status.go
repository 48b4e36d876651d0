package orders

import "strings"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var allStatuses = []Status{StatusPending, StatusShipped, StatusDelivered, StatusCancelled}

// Names used by the legacy back office; accepted on input only.
var statusAliases = map[string]Status{
	"PENDIENTE": StatusPending,
	"ENVIADO":   StatusShipped,
	"ENTREGADO": StatusDelivered,
	"ANULADA":   StatusCancelled,
	"CANCELED":  StatusCancelled,
}

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus resolves s case-insensitively to a Status.
func ParseStatus(s string) (Status, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if key == "" {
		return "", false
	}
	for _, st := range allStatuses {
		if string(st) == key {
			return st, true
		}
	}
	if st, ok := statusAliases[key]; ok {
		return st, true
	}
	return "", false
}

// Valid reports whether s is one of the canonical stored values.
func (s Status) Valid() bool {
	for _, st := range allStatuses {
		if st == s {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }
