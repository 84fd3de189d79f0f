// Package service wires submission, fetching, translation and persistence
// together: it enforces idempotent job creation and runs the work the worker
// loop claims.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yomisub/yomisub/internal/fetch"
	"github.com/yomisub/yomisub/internal/jobs"
	"github.com/yomisub/yomisub/internal/persistence"
	"github.com/yomisub/yomisub/internal/pipeline"
	"github.com/yomisub/yomisub/internal/subtitle"
	"github.com/yomisub/yomisub/pkg/log"
)

// ErrInvalidURL is returned when a submitted URL yields no video id.
var ErrInvalidURL = errors.New("not a valid video URL")

// TranslationStore is the persistence surface the service needs for
// translation results.
type TranslationStore interface {
	PutTranslation(ctx context.Context, t *persistence.Translation) error
	GetTranslation(ctx context.Context, videoID string) (*persistence.Translation, bool, error)
	HasTranslation(ctx context.Context, videoID string) (bool, error)
	ListTranslations(ctx context.Context) ([]persistence.TranslationSummary, error)
}

// Service coordinates job submission and processing.
type Service struct {
	jobStore     jobs.Store
	translations TranslationStore
	fetcher      fetch.Provider
	pipeline     *pipeline.Pipeline
}

func New(jobStore jobs.Store, translations TranslationStore, fetcher fetch.Provider, p *pipeline.Pipeline) *Service {
	return &Service{
		jobStore:     jobStore,
		translations: translations,
		fetcher:      fetcher,
		pipeline:     p,
	}
}

// SubmitResult reports the outcome of a submission.
type SubmitResult struct {
	VideoID           string      `json:"video_id"`
	JobID             string      `json:"job_id,omitempty"`
	Status            jobs.Status `json:"status"`
	AlreadyTranslated bool        `json:"already_translated,omitempty"`
}

// Submit enqueues a translation job for the video in rawURL. Submission is
// idempotent: a video with a stored translation reports completed without a
// new record. Availability of a transcript is verified up front so the
// caller learns about a missing track immediately rather than from a failed
// job.
func (s *Service) Submit(ctx context.Context, rawURL string) (*SubmitResult, error) {
	videoID, ok := ExtractVideoID(rawURL)
	if !ok {
		return nil, ErrInvalidURL
	}

	translated, err := s.translations.HasTranslation(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("check existing translation: %w", err)
	}
	if translated {
		log.Info("Video %s already translated, skipping job creation", videoID)
		return &SubmitResult{
			VideoID:           videoID,
			Status:            jobs.StatusCompleted,
			AlreadyTranslated: true,
		}, nil
	}

	if _, err := s.fetcher.Fetch(ctx, videoID); err != nil {
		if errors.Is(err, fetch.ErrNoTranscript) {
			return nil, fmt.Errorf("video %s: %w", videoID, err)
		}
		return nil, fmt.Errorf("check transcript for %s: %w", videoID, err)
	}

	record, err := s.jobStore.Create(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	log.Info("Enqueued job %s for video %s", record.ID, videoID)

	return &SubmitResult{
		VideoID: videoID,
		JobID:   record.ID,
		Status:  record.Status,
	}, nil
}

// ProcessJob is the worker executor: fetch the transcript, run the
// pipeline, persist the result.
func (s *Service) ProcessJob(ctx context.Context, record *jobs.Record) error {
	entries, err := s.fetcher.Fetch(ctx, record.VideoID)
	if err != nil {
		return fmt.Errorf("fetch transcript: %w", err)
	}

	result, err := s.pipeline.Translate(ctx, entries)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	if err := s.translations.PutTranslation(ctx, &persistence.Translation{
		VideoID:   record.VideoID,
		Title:     result.Title,
		Subtitles: result.Entries,
	}); err != nil {
		return fmt.Errorf("store translation: %w", err)
	}
	return nil
}

// Transcript returns the stored translated track for a video.
func (s *Service) Transcript(ctx context.Context, videoID string) ([]subtitle.Entry, bool, error) {
	translation, ok, err := s.translations.GetTranslation(ctx, videoID)
	if err != nil || !ok {
		return nil, ok, err
	}
	return translation.Subtitles, true, nil
}

// Videos lists translated videos, most subtitles first.
func (s *Service) Videos(ctx context.Context) ([]persistence.TranslationSummary, error) {
	return s.translations.ListTranslations(ctx)
}
