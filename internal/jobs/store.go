package jobs

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for operations on an unknown job id.
var ErrNotFound = errors.New("job not found")

// Store is durable keyed storage for job records, queryable by status.
type Store interface {
	// Create inserts a new pending record for videoID and returns it.
	Create(ctx context.Context, videoID string) (*Record, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records newest created_at first, optionally filtered by
	// status (empty status means all).
	List(ctx context.Context, status Status) ([]*Record, error)

	// ClaimPending atomically transitions the oldest pending record to
	// processing and returns it, or (nil, nil) when none is pending. The
	// claim is a conditional update so concurrent workers never process the
	// same record twice.
	ClaimPending(ctx context.Context) (*Record, error)

	// UpdateStatus transitions a record, recording errMsg for failures.
	// Returns ErrNotFound for an unknown id and an error for an illegal
	// transition.
	UpdateStatus(ctx context.Context, id string, status Status, errMsg string) error

	// DeleteTerminalBefore removes completed/failed records last updated
	// before cutoff, returning how many were removed.
	DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
