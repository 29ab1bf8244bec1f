package cron

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gmsas95/habitlens/internal/dashboard"
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/gmsas95/habitlens/internal/metrics"
	"github.com/gmsas95/habitlens/internal/notify"
	"github.com/gmsas95/habitlens/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 1, 7, 20, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(ctx context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func setupTestService(t *testing.T) (*habitsvc.Service, *store.Store) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	logger := zap.NewNop()
	cache, err := store.OpenMemoryCache(time.Minute)
	require.NoError(t, err)

	st, err := store.NewWithDB(db, cache, logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	engine := insights.NewEngine(logger,
		insights.WithClock(func() time.Time { return testNow }),
		insights.WithLocation(time.UTC),
	)
	return habitsvc.NewService(st, engine, logger, habitsvc.WithMetrics(metrics.New())), st
}

func seedStaleHabit(t *testing.T, svc *habitsvc.Service, st *store.Store, name string) string {
	ctx := context.Background()
	h, err := svc.CreateHabit(ctx, habitsvc.HabitInput{Name: name})
	require.NoError(t, err)

	for _, d := range []int{1, 2, 3} {
		at := time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC)
		require.NoError(t, st.SaveEntry(ctx, &store.Entry{HabitID: h.ID, Date: insights.DayKey(at), CreatedAt: at}))
	}
	return h.ID
}

func TestRunner_RiskScanSendsOncePerDay(t *testing.T) {
	svc, st := setupTestService(t)
	habitID := seedStaleHabit(t, svc, st, "Walk")

	rec := &recordingNotifier{}
	var broadcasts []*dashboard.Insights

	r := NewRunner(Config{}, svc, zap.NewNop(),
		WithReminder(notify.NewReminder(rec, st.Cache(), zap.NewNop())),
		WithBroadcast(func(in *dashboard.Insights) { broadcasts = append(broadcasts, in) }),
	)

	sent, err := r.RunRiskScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, rec.messages, 1)
	assert.Equal(t, habitID, rec.messages[0].HabitID)
	assert.Equal(t, "Walk", rec.messages[0].HabitName)
	assert.Equal(t, "2024-01-07", rec.messages[0].Day)

	sent, err = r.RunRiskScan(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, rec.messages, 1)

	require.Len(t, broadcasts, 2)
	assert.Equal(t, 1, broadcasts[0].HabitsAnalyzed)
}

func TestRunner_RiskScanWithoutReminder(t *testing.T) {
	svc, st := setupTestService(t)
	seedStaleHabit(t, svc, st, "Walk")

	r := NewRunner(Config{}, svc, nil)
	sent, err := r.RunRiskScan(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestRunner_StatsRefreshCaches(t *testing.T) {
	svc, st := setupTestService(t)
	seedStaleHabit(t, svc, st, "Walk")

	r := NewRunner(Config{}, svc, nil)
	require.NoError(t, r.RunStatsRefresh(context.Background()))

	var cached dashboard.Stats
	require.NoError(t, st.Cache().Get(store.KeyDashboardStats, &cached))
	assert.Equal(t, 1, cached.Overall.TotalHabits)
	assert.Equal(t, 3, cached.Overall.TotalEntries)
}

func TestRunner_StartStop(t *testing.T) {
	svc, _ := setupTestService(t)

	r := NewRunner(Config{}, svc, nil)
	require.NoError(t, r.Start())
	assert.True(t, r.IsRunning())
	assert.Error(t, r.Start())

	r.Stop()
	assert.False(t, r.IsRunning())
	r.Stop()
}

func TestRunner_InvalidSchedule(t *testing.T) {
	svc, _ := setupTestService(t)

	r := NewRunner(Config{RiskScan: "not a schedule"}, svc, nil)
	assert.Error(t, r.Start())
	assert.False(t, r.IsRunning())
}
