// Package fetch retrieves machine transcripts for videos from an external
// provider.
package fetch

import (
	"context"
	"errors"

	"github.com/yomisub/yomisub/internal/subtitle"
)

// ErrNoTranscript means the provider has no transcript for the video. It is
// a user-facing condition, not a crash: submission and processing both
// short-circuit on it.
var ErrNoTranscript = errors.New("no transcript available")

// Provider fetches the ordered subtitle entries for a video.
type Provider interface {
	Fetch(ctx context.Context, videoID string) ([]subtitle.Entry, error)
}
