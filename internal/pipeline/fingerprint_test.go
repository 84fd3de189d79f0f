package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint([]string{"Hello.", "Bye."})
	b := Fingerprint([]string{"Hello.", "Bye."})
	assert.Equal(t, a, b)
}

func TestFingerprint_OrderSensitive(t *testing.T) {
	a := Fingerprint([]string{"Hello.", "Bye."})
	b := Fingerprint([]string{"Bye.", "Hello."})
	assert.NotEqual(t, a, b)
}

func TestFingerprint_BoundarySensitive(t *testing.T) {
	// Same concatenated bytes, different segmentation.
	a := Fingerprint([]string{"ab", "c"})
	b := Fingerprint([]string{"a", "bc"})
	assert.NotEqual(t, a, b)
}

func TestMemoryCache_PutGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "fp")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(ctx, "fp", []string{"a", "b"}))
	got, ok, err := cache.Get(ctx, "fp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	// Repeated put is idempotent and keeps the first write.
	require.NoError(t, cache.Put(ctx, "fp", []string{"x"}))
	got, _, _ = cache.Get(ctx, "fp")
	assert.Equal(t, []string{"a", "b"}, got)
}
