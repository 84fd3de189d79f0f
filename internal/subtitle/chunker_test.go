package subtitle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntries(n int) []Entry {
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{
			Start:    float64(i) * 2,
			Duration: 2,
			Text:     fmt.Sprintf("line %d", i),
		}
	}
	return entries
}

func TestChunk_SizesAndOrder(t *testing.T) {
	tests := []struct {
		n, size     int
		wantBatches int
	}{
		{0, 25, 0},
		{1, 25, 1},
		{25, 25, 1},
		{26, 25, 2},
		{50, 25, 2},
		{7, 3, 3},
		{100, 1, 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d size=%d", tt.n, tt.size), func(t *testing.T) {
			entries := makeEntries(tt.n)
			batches := Chunk(entries, tt.size)

			require.Len(t, batches, tt.wantBatches)

			reassembled := make([]Entry, 0, tt.n)
			for i, batch := range batches {
				assert.LessOrEqual(t, len(batch), tt.size)
				if i < len(batches)-1 {
					assert.Len(t, batch, tt.size)
				}
				reassembled = append(reassembled, batch...)
			}
			assert.Equal(t, entries, reassembled)
		})
	}
}

func TestChunk_NonPositiveSizeFallsBackToOne(t *testing.T) {
	batches := Chunk(makeEntries(3), 0)
	require.Len(t, batches, 3)
	for _, batch := range batches {
		assert.Len(t, batch, 1)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello world", CleanText("hello  world"))
	assert.Equal(t, "a b c", CleanText(" a\nb   c "))
	assert.Equal(t, "", CleanText("  \n "))
}

func TestCleanEntries_PreservesTiming(t *testing.T) {
	entries := []Entry{{Start: 1.5, Duration: 2.5, Text: "hi\nthere"}}
	cleaned := CleanEntries(entries)

	require.Len(t, cleaned, 1)
	assert.Equal(t, 1.5, cleaned[0].Start)
	assert.Equal(t, 2.5, cleaned[0].Duration)
	assert.Equal(t, "hi there", cleaned[0].Text)
	assert.Equal(t, "hi\nthere", entries[0].Text)
}
