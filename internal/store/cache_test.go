package store

import (
	"testing"
	"time"

	apperrors "github.com/gmsas95/habitlens/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Habits int    `json:"habits"`
	Label  string `json:"label"`
}

func setupTestCache(t *testing.T, ttl time.Duration) *Cache {
	c, err := OpenMemoryCache(ttl)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_PutGet(t *testing.T) {
	c := setupTestCache(t, time.Minute)

	require.NoError(t, c.Put(KeyDashboardInsights, snapshot{Habits: 3, Label: "ok"}))

	var got snapshot
	require.NoError(t, c.Get(KeyDashboardInsights, &got))
	assert.Equal(t, snapshot{Habits: 3, Label: "ok"}, got)
}

func TestCache_Miss(t *testing.T) {
	c := setupTestCache(t, 0)

	var got snapshot
	err := c.Get("missing", &got)
	assert.ErrorIs(t, err, apperrors.ErrCacheMiss)
}

func TestCache_InvalidateDashboard(t *testing.T) {
	c := setupTestCache(t, time.Minute)
	require.NoError(t, c.Put(KeyDashboardInsights, snapshot{Habits: 1}))
	require.NoError(t, c.Put(KeyDashboardStats, snapshot{Habits: 1}))

	require.NoError(t, c.InvalidateDashboard())

	var got snapshot
	assert.ErrorIs(t, c.Get(KeyDashboardInsights, &got), apperrors.ErrCacheMiss)
	assert.ErrorIs(t, c.Get(KeyDashboardStats, &got), apperrors.ErrCacheMiss)
}

func TestCache_MarkOnce(t *testing.T) {
	c := setupTestCache(t, time.Minute)

	first, err := c.MarkOnce("habit_1", "2024-01-07")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := c.MarkOnce("habit_1", "2024-01-07")
	require.NoError(t, err)
	assert.False(t, again)

	nextDay, err := c.MarkOnce("habit_1", "2024-01-08")
	require.NoError(t, err)
	assert.True(t, nextDay)
}

func TestOpenCache_Directory(t *testing.T) {
	c, err := OpenCache(t.TempDir(), time.Hour)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, time.Hour, c.TTL())
	require.NoError(t, c.Put("k", 1))

	var v int
	require.NoError(t, c.Get("k", &v))
	assert.Equal(t, 1, v)
}
