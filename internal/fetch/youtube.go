package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yomisub/yomisub/internal/config"
	"github.com/yomisub/yomisub/internal/subtitle"
)

// YouTubeClient fetches transcripts from the YouTube timedtext endpoint in
// json3 format.
type YouTubeClient struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

func NewYouTubeClient(cfg config.FetchConfig) *YouTubeClient {
	lang := cfg.SourceLanguage
	if lang == "" {
		lang = "en"
	}
	return &YouTubeClient{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		language: lang,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// timedTextResponse is the json3 timedtext document.
type timedTextResponse struct {
	Events []timedTextEvent `json:"events"`
}

type timedTextEvent struct {
	StartMs    int64              `json:"tStartMs"`
	DurationMs int64              `json:"dDurationMs"`
	Segs       []timedTextSegment `json:"segs"`
}

type timedTextSegment struct {
	UTF8 string `json:"utf8"`
}

// Fetch returns the transcript for videoID, or ErrNoTranscript when the
// provider has none (missing track, empty document, or 404).
func (c *YouTubeClient) Fetch(ctx context.Context, videoID string) ([]subtitle.Entry, error) {
	endpoint := fmt.Sprintf("%s/api/timedtext?v=%s&lang=%s&fmt=json3",
		c.baseURL, url.QueryEscape(videoID), url.QueryEscape(c.language))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create transcript request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoTranscript
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch transcript for %s: unexpected status %d", videoID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read transcript for %s: %w", videoID, err)
	}
	// YouTube answers 200 with an empty body when no track exists.
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrNoTranscript
	}

	var doc timedTextResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode transcript for %s: %w", videoID, err)
	}

	entries := make([]subtitle.Entry, 0, len(doc.Events))
	for _, event := range doc.Events {
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := subtitle.CleanText(sb.String())
		if text == "" {
			continue
		}
		entries = append(entries, subtitle.Entry{
			Start:    float64(event.StartMs) / 1000,
			Duration: float64(event.DurationMs) / 1000,
			Text:     text,
		})
	}
	if len(entries) == 0 {
		return nil, ErrNoTranscript
	}
	return entries, nil
}
