// Package pipeline drives chunked translation of a subtitle track: batching,
// cache lookup by content fingerprint, the external translation call,
// alignment repair, and reassembly into a time-aligned result.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/yomisub/yomisub/internal/align"
	"github.com/yomisub/yomisub/internal/subtitle"
	"github.com/yomisub/yomisub/internal/translator"
	"github.com/yomisub/yomisub/pkg/log"
)

// PlaceholderTitle is used when a track has no translated text to title it.
const PlaceholderTitle = "Untitled"

// Result is a fully translated track: one entry per input entry, in input
// order, plus a display title taken from the first non-empty translated line.
type Result struct {
	Title   string
	Entries []subtitle.Entry
}

// Pipeline translates subtitle tracks batch by batch. Batches run
// sequentially to keep ordering trivial and respect provider rate limits; a
// failed batch falls back to the original text instead of failing the track.
type Pipeline struct {
	translator translator.Translator
	cache      Cache
	target     language.Tag
	chunkSize  int
	group      singleflight.Group
}

func New(tr translator.Translator, cache Cache, target language.Tag, chunkSize int) *Pipeline {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if chunkSize <= 0 {
		chunkSize = 25
	}
	return &Pipeline{
		translator: tr,
		cache:      cache,
		target:     target,
		chunkSize:  chunkSize,
	}
}

// Translate produces a Result for the given track. Entries are cleaned,
// batched, and translated in order. The only fatal outcome is context
// cancellation; provider failures degrade to pass-through per batch.
func (p *Pipeline) Translate(ctx context.Context, entries []subtitle.Entry) (*Result, error) {
	if p.translator == nil {
		return nil, fmt.Errorf("translator is not set")
	}

	cleaned := subtitle.CleanEntries(entries)
	batches := subtitle.Chunk(cleaned, p.chunkSize)
	log.Info("Translating track: %d entries in %d batches (batch size %d)",
		len(cleaned), len(batches), p.chunkSize)
	p.logSourceLanguage(cleaned)

	out := make([]subtitle.Entry, 0, len(cleaned))
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("translation canceled at batch %d/%d: %w", i+1, len(batches), err)
		}

		fragments, err := p.translateBatch(ctx, batch)
		if err != nil {
			// Pass-through fallback: keep the original text for this batch.
			log.Warn("Batch %d/%d failed, keeping original text: %v", i+1, len(batches), err)
			fragments = subtitle.Texts(batch)
		}

		for j, entry := range batch {
			out = append(out, subtitle.Entry{
				Start:    entry.Start,
				Duration: entry.Duration,
				Text:     fragments[j],
			})
		}
	}

	return &Result{
		Title:   trackTitle(out),
		Entries: out,
	}, nil
}

// translateBatch resolves one batch to its fragment list, consulting the
// cache first. Concurrent misses on the same fingerprint are collapsed so
// the provider is called once per content.
func (p *Pipeline) translateBatch(ctx context.Context, batch []subtitle.Entry) ([]string, error) {
	texts := subtitle.Texts(batch)
	fingerprint := Fingerprint(texts)

	cached, ok, err := p.cache.Get(ctx, fingerprint)
	if err != nil {
		log.Warn("Cache lookup failed for %s, treating as miss: %v", shortFingerprint(fingerprint), err)
	} else if ok && len(cached) == len(batch) {
		log.Debug("Cache hit for batch %s (%d entries)", shortFingerprint(fingerprint), len(batch))
		return cached, nil
	}

	v, err, _ := p.group.Do(fingerprint, func() (interface{}, error) {
		translated, err := p.translator.Translate(ctx, joinSentences(texts), p.target)
		if err != nil {
			return nil, err
		}

		candidates := align.Split(translated)
		if diff := len(candidates) - len(batch); diff != 0 {
			log.Warn("Alignment mismatch for batch %s: %d entries, %d candidates",
				shortFingerprint(fingerprint), len(batch), len(candidates))
		}
		fragments := align.Fit(candidates, len(batch))

		if err := p.cache.Put(ctx, fingerprint, fragments); err != nil {
			log.Warn("Cache store failed for %s: %v", shortFingerprint(fingerprint), err)
		}
		return fragments, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (p *Pipeline) logSourceLanguage(entries []subtitle.Entry) {
	if len(entries) == 0 {
		return
	}
	sample := strings.Join(subtitle.Texts(entries[:min(len(entries), 20)]), " ")
	info := whatlanggo.Detect(sample)
	log.Info("Detected source language: %s (confidence %.2f), target: %s",
		info.Lang.Iso6391(), info.Confidence, p.target)
}

// joinSentences normalizes each text to end with a sentence terminator and
// joins them with spaces, so the provider sees clear sentence boundaries.
func joinSentences(texts []string) string {
	normalized := make([]string, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
			text += "."
		}
		normalized = append(normalized, text)
	}
	return strings.Join(normalized, " ")
}

func trackTitle(entries []subtitle.Entry) string {
	for _, e := range entries {
		if strings.TrimSpace(e.Text) != "" {
			return e.Text
		}
	}
	return PlaceholderTitle
}

func shortFingerprint(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}
