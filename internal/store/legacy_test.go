package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/gmsas95/habitlens/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyBlob = `{
  "habits": [
    {"id": "h1", "name": "Read", "color": "#8b5cf6", "createdAt": "2024-01-01T08:00:00Z"},
    {"id": "h2", "name": "Walk"},
    {"id": "", "name": "Broken"}
  ],
  "habit_entries": [
    {"habitId": "h1", "date": "2024-01-06", "timestamp": 1704528000000, "photo": "file:///a.jpg"},
    {"habitId": "h1", "date": "2024-01-07", "createdAt": "2024-01-07T10:00:00Z",
     "aiData": {"category": "reading", "categoryName": "Reading", "confidence": 0.85}},
    {"habitId": "h1", "date": "2024-01-07", "createdAt": "2024-01-07T21:00:00Z", "note": "again"},
    {"habitId": "h2", "createdAt": "2024-01-05T18:00:00Z"},
    {"habitId": "ghost", "date": "2024-01-07"},
    {"habitId": "h2"}
  ]
}`

func TestStore_Import(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	result, err := s.Import(ctx, strings.NewReader(legacyBlob), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Habits)
	assert.Equal(t, 3, result.Entries)
	assert.Equal(t, 1, result.Replaced)
	assert.Equal(t, 3, result.Skipped)

	read, err := s.GetHabit(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), read.CreatedAt.UTC())

	entries, err := s.ListEntries(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-01-07", entries[0].Date)
	assert.Equal(t, "again", entries[0].Note)

	walk, err := s.ListEntries(ctx, "h2")
	require.NoError(t, err)
	require.Len(t, walk, 1)
	assert.Equal(t, "2024-01-05", walk[0].Date)
}

func TestStore_Import_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Import(ctx, strings.NewReader(legacyBlob), time.UTC)
	require.NoError(t, err)
	_, err = s.Import(ctx, strings.NewReader(legacyBlob), time.UTC)
	require.NoError(t, err)

	habits, err := s.ListHabits(ctx)
	require.NoError(t, err)
	assert.Len(t, habits, 2)

	counts, err := s.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["h1"])

	total := int64(0)
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, int64(3), total)
}

func TestStore_Import_Malformed(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Import(context.Background(), strings.NewReader("{"), time.UTC)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrImportFailed.Code, apperrors.GetCode(err))
}

func TestStore_ImportFile_Missing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.ImportFile(context.Background(), filepath.Join(t.TempDir(), "none.json"), time.UTC)
	assert.Equal(t, apperrors.ErrImportFailed.Code, apperrors.GetCode(err))
}

func TestStore_Watch(t *testing.T) {
	s := setupTestStore(t)
	path := filepath.Join(t.TempDir(), "blob.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	imported := make(chan *ImportResult, 10)
	go s.Watch(ctx, path, time.UTC, func(r *ImportResult, err error) {
		if err != nil {
			return
		}
		select {
		case imported <- r:
		default:
		}
	})

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(250 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case r := <-imported:
			assert.Equal(t, 2, r.Habits)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(legacyBlob), 0644))
		case <-deadline:
			t.Fatal("blob was not re-imported")
		}
	}
}
