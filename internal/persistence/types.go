package persistence

import (
	"time"

	"github.com/yomisub/yomisub/internal/subtitle"
)

// Translation is the persisted output for one video: the full translated
// track plus display metadata. Written once on successful pipeline
// completion; its existence marks the video as already processed.
type Translation struct {
	VideoID   string           `json:"video_id"`
	Title     string           `json:"title"`
	Subtitles []subtitle.Entry `json:"subtitles"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TranslationSummary is the listing view of a stored translation.
type TranslationSummary struct {
	VideoID       string `json:"video_id"`
	Title         string `json:"title"`
	SubtitleCount int    `json:"subtitle_count"`
}
