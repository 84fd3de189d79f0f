package persistence

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/yomisub/yomisub/internal/jobs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteStore backs the job store, the translation result store and the
// batch translation cache with a single sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	// Bootstrap schema_migrations table so we can track applied versions.
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version := migrationVersion(entry.Name())
		if version <= 0 {
			continue
		}
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if exists > 0 {
			continue
		}
		content, err := migrationFiles.ReadFile(filepath.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer from a migration filename (e.g. "001_init.sql" → 1).
func migrationVersion(name string) int {
	for i, c := range name {
		if c < '0' || c > '9' {
			if i == 0 {
				return 0
			}
			n, _ := strconv.Atoi(name[:i])
			return n
		}
	}
	n, _ := strconv.Atoi(name)
	return n
}

// --- jobs.Store ---

func (s *SQLiteStore) Create(ctx context.Context, videoID string) (*jobs.Record, error) {
	now := time.Now().UTC()
	record := &jobs.Record{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		Status:    jobs.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO jobs (id, video_id, status, error, created_at, updated_at)
		 VALUES (?, ?, ?, '', ?, ?)`,
		record.ID,
		record.VideoID,
		string(record.Status),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return record, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*jobs.Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, video_id, status, error, created_at, updated_at FROM jobs WHERE id = ?`,
		id,
	)
	return scanJob(row)
}

func (s *SQLiteStore) List(ctx context.Context, status jobs.Status) ([]*jobs.Record, error) {
	query := `SELECT id, video_id, status, error, created_at, updated_at FROM jobs`
	args := make([]any, 0, 1)
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	ret := make([]*jobs.Record, 0)
	for rows.Next() {
		var item jobs.Record
		var st string
		if err := rows.Scan(&item.ID, &item.VideoID, &st, &item.Error, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.Status = jobs.Status(st)
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

func (s *SQLiteStore) ClaimPending(ctx context.Context) (*jobs.Record, error) {
	for {
		row := s.db.QueryRowContext(
			ctx,
			`SELECT id FROM jobs WHERE status = ? ORDER BY created_at ASC LIMIT 1`,
			string(jobs.StatusPending),
		)
		var id string
		if err := row.Scan(&id); err != nil {
			if err == sql.ErrNoRows {
				return nil, nil
			}
			return nil, fmt.Errorf("find pending job: %w", err)
		}

		// Conditional update: only the worker that flips pending→processing
		// owns the record. A lost race just retries the select.
		res, err := s.db.ExecContext(
			ctx,
			`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			string(jobs.StatusProcessing),
			time.Now().UTC(),
			id,
			string(jobs.StatusPending),
		)
		if err != nil {
			return nil, fmt.Errorf("claim job %s: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			continue
		}
		return s.Get(ctx, id)
	}
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status jobs.Status, errMsg string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !jobs.CanTransition(current.Status, status) {
		return fmt.Errorf("illegal transition %s → %s for job %s", current.Status, status, id)
	}

	updatedAt := time.Now().UTC()
	if !updatedAt.After(current.UpdatedAt) {
		updatedAt = current.UpdatedAt.Add(time.Microsecond)
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs SET status = ?, error = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(status),
		errMsg,
		updatedAt,
		id,
		string(current.Status),
	)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("job %s changed concurrently during %s → %s", id, current.Status, status)
	}
	return nil
}

func (s *SQLiteStore) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM jobs WHERE status IN (?, ?) AND updated_at < ?`,
		string(jobs.StatusCompleted),
		string(jobs.StatusFailed),
		cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete terminal jobs: %w", err)
	}
	return res.RowsAffected()
}

func scanJob(row *sql.Row) (*jobs.Record, error) {
	var item jobs.Record
	var st string
	if err := row.Scan(&item.ID, &item.VideoID, &st, &item.Error, &item.CreatedAt, &item.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, jobs.ErrNotFound
		}
		return nil, err
	}
	item.Status = jobs.Status(st)
	return &item, nil
}

// --- translation results ---

func (s *SQLiteStore) PutTranslation(ctx context.Context, t *Translation) error {
	if t == nil {
		return fmt.Errorf("translation is nil")
	}
	payload, err := json.Marshal(t.Subtitles)
	if err != nil {
		return fmt.Errorf("marshal subtitles: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO translations (video_id, title, subtitles_json, subtitle_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(video_id) DO UPDATE SET
			title=excluded.title,
			subtitles_json=excluded.subtitles_json,
			subtitle_count=excluded.subtitle_count,
			updated_at=excluded.updated_at`,
		t.VideoID,
		t.Title,
		string(payload),
		len(t.Subtitles),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("store translation for %s: %w", t.VideoID, err)
	}
	return nil
}

func (s *SQLiteStore) GetTranslation(ctx context.Context, videoID string) (*Translation, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT video_id, title, subtitles_json, created_at, updated_at FROM translations WHERE video_id = ?`,
		videoID,
	)
	var ret Translation
	var payload string
	if err := row.Scan(&ret.VideoID, &ret.Title, &payload, &ret.CreatedAt, &ret.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(payload), &ret.Subtitles); err != nil {
		return nil, false, fmt.Errorf("decode subtitles for %s: %w", videoID, err)
	}
	return &ret, true, nil
}

func (s *SQLiteStore) HasTranslation(ctx context.Context, videoID string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations WHERE video_id = ?`, videoID)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTranslations returns stored translations sorted by subtitle count,
// largest first.
func (s *SQLiteStore) ListTranslations(ctx context.Context) ([]TranslationSummary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT video_id, title, subtitle_count FROM translations ORDER BY subtitle_count DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	ret := make([]TranslationSummary, 0)
	for rows.Next() {
		var item TranslationSummary
		if err := rows.Scan(&item.VideoID, &item.Title, &item.SubtitleCount); err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, rows.Err()
}

// --- batch translation cache ---

// BatchCache exposes the translation_cache table under the pipeline's cache
// interface (plain Get/Put, which would collide with the job accessors on
// SQLiteStore itself).
type BatchCache struct {
	store *SQLiteStore
}

func (s *SQLiteStore) BatchCache() *BatchCache {
	return &BatchCache{store: s}
}

func (c *BatchCache) Get(ctx context.Context, fingerprint string) ([]string, bool, error) {
	return c.store.GetCache(ctx, fingerprint)
}

func (c *BatchCache) Put(ctx context.Context, fingerprint string, fragments []string) error {
	return c.store.PutCache(ctx, fingerprint, fragments)
}

func (s *SQLiteStore) GetCache(ctx context.Context, fingerprint string) ([]string, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT fragments_json FROM translation_cache WHERE fingerprint = ?`,
		fingerprint,
	)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	var fragments []string
	if err := json.Unmarshal([]byte(payload), &fragments); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", fingerprint, err)
	}
	return fragments, true, nil
}

func (s *SQLiteStore) PutCache(ctx context.Context, fingerprint string, fragments []string) error {
	payload, err := json.Marshal(fragments)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	// First write wins: content is deterministic per fingerprint, so
	// concurrent writers are interchangeable.
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO translation_cache (fingerprint, fragments_json, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(fingerprint) DO NOTHING`,
		fingerprint,
		string(payload),
		time.Now().UTC(),
	)
	return err
}
