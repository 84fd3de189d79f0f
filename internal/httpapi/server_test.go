package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/yomisub/yomisub/internal/fetch"
	"github.com/yomisub/yomisub/internal/jobs"
	"github.com/yomisub/yomisub/internal/persistence"
	"github.com/yomisub/yomisub/internal/pipeline"
	"github.com/yomisub/yomisub/internal/service"
	"github.com/yomisub/yomisub/internal/subtitle"
)

type fakeFetcher struct {
	tracks map[string][]subtitle.Entry
}

func (f *fakeFetcher) Fetch(_ context.Context, videoID string) ([]subtitle.Entry, error) {
	entries, ok := f.tracks[videoID]
	if !ok {
		return nil, fetch.ErrNoTranscript
	}
	return entries, nil
}

type echoTranslator struct{}

func (echoTranslator) Translate(_ context.Context, text string, _ language.Tag) (string, error) {
	return text, nil
}

func newTestServer(t *testing.T) (*Server, *persistence.SQLiteStore) {
	t.Helper()
	store, err := persistence.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	fetcher := &fakeFetcher{tracks: map[string][]subtitle.Entry{
		"8Hw2-zAt-fw": {
			{Start: 0, Duration: 5, Text: "Hello."},
			{Start: 5, Duration: 3, Text: "Bye."},
		},
	}}
	p := pipeline.New(echoTranslator{}, store.BatchCache(), language.Japanese, 25)
	svc := service.New(store, store, fetcher, p)
	return NewServer(svc, store), store
}

func doRequest(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleProcess(t *testing.T) {
	server, store := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/process",
		`{"url": "https://youtu.be/8Hw2-zAt-fw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.SubmitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "8Hw2-zAt-fw", result.VideoID)
	assert.Equal(t, jobs.StatusPending, result.Status)
	assert.NotEmpty(t, result.JobID)

	record, err := store.Get(context.Background(), result.JobID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusPending, record.Status)
}

func TestHandleProcess_BadRequests(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/process", `{"url": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/process", `{"url": "https://example.com/x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Known URL form but no transcript available.
	rec = doRequest(t, server, http.MethodPost, "/api/process", `{"url": "https://youtu.be/no-subs"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/process", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleProcess_AlreadyTranslated(t *testing.T) {
	server, store := newTestServer(t)

	require.NoError(t, store.PutTranslation(context.Background(), &persistence.Translation{
		VideoID:   "8Hw2-zAt-fw",
		Title:     "こんにちは。",
		Subtitles: []subtitle.Entry{{Start: 0, Duration: 5, Text: "こんにちは。"}},
	}))

	rec := doRequest(t, server, http.MethodPost, "/api/process",
		`{"url": "https://youtu.be/8Hw2-zAt-fw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.SubmitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.AlreadyTranslated)
	assert.Equal(t, jobs.StatusCompleted, result.Status)
}

func TestHandleJobs(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	record, err := store.Create(ctx, "8Hw2-zAt-fw")
	require.NoError(t, err)

	rec := doRequest(t, server, http.MethodGet, "/api/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []jobs.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)

	rec = doRequest(t, server, http.MethodGet, "/api/jobs?status=completed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Empty(t, records)

	rec = doRequest(t, server, http.MethodGet, "/api/jobs/"+record.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/jobs/unknown-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleTranscripts(t *testing.T) {
	server, store := newTestServer(t)

	require.NoError(t, store.PutTranslation(context.Background(), &persistence.Translation{
		VideoID: "8Hw2-zAt-fw",
		Title:   "こんにちは。",
		Subtitles: []subtitle.Entry{
			{Start: 0, Duration: 5, Text: "こんにちは。"},
			{Start: 5, Duration: 3, Text: "さようなら。"},
		},
	}))

	rec := doRequest(t, server, http.MethodGet, "/api/transcripts/8Hw2-zAt-fw", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []subtitle.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "こんにちは。", entries[0].Text)

	rec = doRequest(t, server, http.MethodGet, "/api/transcripts/8Hw2-zAt-fw?format=srt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "00:00:00,000 --> 00:00:05,000")
	assert.Contains(t, rec.Body.String(), "こんにちは。")

	rec = doRequest(t, server, http.MethodGet, "/api/transcripts/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleVideos(t *testing.T) {
	server, store := newTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/videos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	require.NoError(t, store.PutTranslation(context.Background(), &persistence.Translation{
		VideoID:   "8Hw2-zAt-fw",
		Title:     "こんにちは。",
		Subtitles: []subtitle.Entry{{Start: 0, Duration: 5, Text: "こんにちは。"}},
	}))

	rec = doRequest(t, server, http.MethodGet, "/api/videos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var videos []persistence.TranslationSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &videos))
	require.Len(t, videos, 1)
	assert.Equal(t, 1, videos[0].SubtitleCount)
}
