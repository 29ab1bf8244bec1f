package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gmsas95/habitlens/internal/app"
	"github.com/gmsas95/habitlens/internal/config"
	"github.com/gmsas95/habitlens/internal/dashboard"
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T) *app.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	st, err := store.NewWithDB(db, nil, zap.NewNop())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Analytics.Timezone = "UTC"
	application := app.NewWithStore(cfg, st, zap.NewNop(), "test")
	t.Cleanup(func() { application.Close() })
	return application
}

func run(t *testing.T, application *app.App, format Format, command string, args ...string) (string, int) {
	var out bytes.Buffer
	code := New(application, &out, format).Run(context.Background(), command, args)
	return out.String(), code
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestHabitCommands(t *testing.T) {
	application := setupTestApp(t)

	out, code := run(t, application, FormatJSON, "habit", "add", "Reading", "20", "pages")
	require.Equal(t, 0, code)

	var habit store.Habit
	require.NoError(t, json.Unmarshal([]byte(out), &habit))
	assert.Equal(t, "Reading", habit.Name)
	assert.Equal(t, "20 pages", habit.Description)

	out, code = run(t, application, FormatText, "habit", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Reading")
	assert.Contains(t, out, habit.ID)

	out, code = run(t, application, FormatJSON, "entry", "add", habit.ID, "file:///book.jpg", "chapter", "3")
	require.Equal(t, 0, code)
	var result habitsvc.EntryResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "chapter 3", result.Entry.Note)
	assert.Equal(t, "reading", result.Entry.Classification().Category)

	out, code = run(t, application, FormatText, "entry", "list", habit.ID)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "chapter 3")

	_, code = run(t, application, FormatText, "habit", "delete", habit.ID)
	assert.Equal(t, 0, code)

	_, code = run(t, application, FormatText, "habit", "show", habit.ID)
	assert.Equal(t, 1, code)
}

func TestUsageErrors(t *testing.T) {
	application := setupTestApp(t)

	for _, args := range [][]string{
		{"habit", "add"},
		{"entry"},
		{"entry", "add"},
		{"insights"},
		{"import"},
		{"unknown"},
	} {
		_, code := run(t, application, FormatText, args[0], args[1:]...)
		assert.Equal(t, 1, code, strings.Join(args, " "))
	}
}

func TestInsightsCommand(t *testing.T) {
	application := setupTestApp(t)
	ctx := context.Background()

	habit, err := application.Service.CreateHabit(ctx, habitsvc.HabitInput{Name: "Walk"})
	require.NoError(t, err)
	_, err = application.Service.AddEntry(ctx, habit.ID, "", "")
	require.NoError(t, err)

	out, code := run(t, application, FormatText, "insights", habit.ID)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Walk")
	assert.Contains(t, out, "Consistency")

	out, code = run(t, application, FormatJSON, "insights", habit.ID, "strength")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"level"`)

	_, code = run(t, application, FormatJSON, "insights", habit.ID, "bogus")
	assert.Equal(t, 1, code)
}

func TestDashboardCommand(t *testing.T) {
	application := setupTestApp(t)

	out, code := run(t, application, FormatText, "dashboard")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Start logging your habits to see insights.")

	out, code = run(t, application, FormatYAML, "dashboard")
	require.Equal(t, 0, code)
	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "topPerformingHabits")
	assert.Contains(t, doc, "habitsAnalyzed")
}

func TestStatsAndSuggest(t *testing.T) {
	application := setupTestApp(t)

	out, code := run(t, application, FormatText, "stats")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Overview")

	out, code = run(t, application, FormatText, "suggest")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Morning Exercise")
}

func TestToolCommands(t *testing.T) {
	application := setupTestApp(t)

	out, code := run(t, application, FormatText, "tools")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "list_habits")

	out, code = run(t, application, FormatJSON, "tool", "suggest_habits", `{"limit": 2}`)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Morning Exercise")

	_, code = run(t, application, FormatJSON, "tool", "nope")
	assert.Equal(t, 1, code)
}

func TestImportCommand(t *testing.T) {
	application := setupTestApp(t)

	path := filepath.Join(t.TempDir(), "blob.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"habits": [{"id": "h1", "name": "Read"}],
		"habit_entries": [{"habitId": "h1", "createdAt": "2024-01-02T08:00:00Z"}]
	}`), 0644))

	out, code := run(t, application, FormatText, "import", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Imported 1 habits and 1 entries (0 skipped)")
}

func TestWatchStopsWithContext(t *testing.T) {
	application := setupTestApp(t)

	path := filepath.Join(t.TempDir(), "blob.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"habits": [], "habit_entries": []}`), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	code := New(application, &out, FormatText).Run(ctx, "watch", []string{path})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Watching")
}

func TestDashboardMarkdown(t *testing.T) {
	assert.Contains(t, dashboardMarkdown(dashboard.Empty()), "Start logging")
}

func TestHashPassword(t *testing.T) {
	_, err := hashPassword("short", bcrypt.MinCost)
	assert.Error(t, err)

	hash, err := hashPassword("long enough", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("long enough")))
}

func TestPrintHelp(t *testing.T) {
	var out bytes.Buffer
	PrintHelp(&out)
	assert.Contains(t, out.String(), "habit add <name>")
}
