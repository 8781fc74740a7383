package domain

import "strings"

// Status is the lifecycle state of a booking:
// pending -> confirmed/active -> completed, with cancelled reachable from
// any non-final state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// statusAliases folds backend spellings onto the canonical set.
var statusAliases = map[string]Status{
	"pending":     StatusPending,
	"confirmed":   StatusConfirmed,
	"reserved":    StatusConfirmed,
	"booked":      StatusConfirmed,
	"active":      StatusActive,
	"in_progress": StatusActive,
	"ongoing":     StatusActive,
	"upcoming":    StatusUpcoming,
	"scheduled":   StatusUpcoming,
	"completed":   StatusCompleted,
	"complete":    StatusCompleted,
	"finished":    StatusCompleted,
	"done":        StatusCompleted,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
}

// ParseStatus returns the canonical Status for a backend value. Unknown
// statuses are lowercased and kept as-is to avoid data loss; an absent
// status is the initial pending state.
func ParseStatus(value string) Status {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return StatusPending
	}
	if status, ok := statusAliases[trimmed]; ok {
		return status
	}
	return Status(trimmed)
}

// IsPast reports whether the booking belongs in the past partition of a
// listing. Everything not finished, including unknown statuses, stays
// current so it remains visible.
func (s Status) IsPast() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanBeCancelled reports whether a cancel transition is still meaningful.
func (s Status) CanBeCancelled() bool {
	return !s.IsPast()
}

// IsCompleted reports whether the booking has been closed normally.
func (s Status) IsCompleted() bool {
	return s == StatusCompleted
}
