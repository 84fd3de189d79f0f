package jobs

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// CanTransition reports whether moving from one status to another is legal.
// Transitions are monotonic: pending→processing→{completed,failed}, with no
// path back and no movement between terminal states.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

// Terminal reports whether a status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Record tracks one translation request through its lifecycle. The store is
// the single source of truth; after creation only the worker writes status.
type Record struct {
	ID        string    `json:"job_id"`
	VideoID   string    `json:"video_id"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
