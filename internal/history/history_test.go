package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AddDeduplicates(t *testing.T) {
	h := New("1 + 1 =", " 1 + 1 = ", "2 + 2 =", "")
	assert.Equal(t, 2, h.Len())
	assert.True(t, h.Contains("2 + 2 ="))
	assert.False(t, h.Contains("3 + 3 ="))

	assert.Equal(t, 1, h.Add("3 + 3 =", "1 + 1 ="))
	assert.Equal(t, []string{"1 + 1 =", "2 + 2 =", "3 + 3 ="}, h.All())
}

func TestHistory_RecentCapsAtLimit(t *testing.T) {
	h := New()
	for i := range 120 {
		h.Add(fmt.Sprintf("%d + 1 =", i))
	}
	recent := h.Recent(PromptLimit)
	require.Len(t, recent, PromptLimit)
	assert.Equal(t, "70 + 1 =", recent[0])
	assert.Equal(t, "119 + 1 =", recent[PromptLimit-1])

	assert.Len(t, New("a").Recent(PromptLimit), 1)
	assert.Nil(t, New("a").Recent(0))
}

func TestHistory_CloneAndSince(t *testing.T) {
	h := New("a", "b")
	work := h.Clone()
	work.Add("c", "d")

	assert.Equal(t, 2, h.Len(), "clone must not write through")
	assert.Equal(t, []string{"c", "d"}, work.Since(h.Len()))
	assert.Nil(t, h.Since(5))
}

func TestHistory_NilSafe(t *testing.T) {
	var h *History
	assert.Zero(t, h.Len())
	assert.False(t, h.Contains("x"))
	assert.Nil(t, h.Recent(10))
	assert.Zero(t, h.Clone().Len())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Append(ctx, []string{"x", "y"}))
	require.NoError(t, s.Append(ctx, []string{"y", "z"}))

	h, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, h.All())

	require.NoError(t, s.Clear(ctx))
	h, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, h.Len())
}

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "")
}

func TestRedisStore(t *testing.T) {
	ctx := t.Context()
	s := newRedisStore(t)

	require.NoError(t, s.Append(ctx, []string{"72 ÷ 8 =", "15 + 6 ="}))
	require.NoError(t, s.Append(ctx, []string{"15 + 6 =", "300 - 1 =", "  "}))

	h, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"72 ÷ 8 =", "15 + 6 =", "300 - 1 ="}, h.All())

	require.NoError(t, s.Clear(ctx))
	h, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, h.Len())
}

func TestRedisStore_KeepsInsertionOrder(t *testing.T) {
	ctx := t.Context()
	s := newRedisStore(t)

	texts := make([]string, 200)
	for i := range texts {
		// Reverse lexical order so ordering by member would show.
		texts[i] = fmt.Sprintf("%03d + 1 =", 999-i)
	}
	require.NoError(t, s.Append(ctx, texts))

	h, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, texts, h.All())
	assert.Equal(t, texts[150:], h.Recent(PromptLimit))
}

func TestRedisStore_TrimsOldest(t *testing.T) {
	ctx := t.Context()
	s := newRedisStore(t)
	s.MaxEntries = 2

	require.NoError(t, s.Append(ctx, []string{"z-oldest", "m-middle", "a-newest"}))

	h, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"m-middle", "a-newest"}, h.All())
	assert.Equal(t, []string{"a-newest"}, h.Recent(1))

	require.NoError(t, s.Append(ctx, []string{"b-latest"}))
	h, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-newest", "b-latest"}, h.All())
}
