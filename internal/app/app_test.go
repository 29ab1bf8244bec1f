package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gmsas95/habitlens/internal/config"
	"github.com/gmsas95/habitlens/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T, cfg *config.Config) *App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	cache, err := store.OpenMemoryCache(time.Minute)
	require.NoError(t, err)

	st, err := store.NewWithDB(db, cache, zap.NewNop())
	require.NoError(t, err)

	application := NewWithStore(cfg, st, zap.NewNop(), "test")
	t.Cleanup(func() { application.Close() })
	return application
}

func TestNewWithStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.Analytics.Timezone = "UTC"
	application := setupTestApp(t, cfg)

	assert.Equal(t, "test", application.Version)
	assert.NotNil(t, application.Service)
	assert.Equal(t, time.UTC, application.Service.Engine().Location())

	skill, ok := application.SkillsRegistry.GetSkill("habits")
	require.True(t, ok)
	assert.NotEmpty(t, skill.Tools())
}

func TestSetupNotifiers(t *testing.T) {
	cfg := &config.Config{}
	application := setupTestApp(t, cfg)
	assert.Zero(t, application.SetupNotifiers().Len())

	cfg.Notify.Webhook.URL = "http://127.0.0.1:1/hook"
	cfg.Notify.Discord.Enabled = true
	cfg.Notify.Discord.Token = "token"
	cfg.Notify.Discord.ChannelID = "habits"
	cfg.Notify.Telegram.Enabled = true

	n := application.SetupNotifiers()
	assert.Equal(t, 2, n.Len())
	assert.NotNil(t, application.DiscordBot)
	assert.Nil(t, application.TelegramBot)
}

func TestImportLegacy(t *testing.T) {
	cfg := &config.Config{}
	cfg.Analytics.Timezone = "UTC"
	application := setupTestApp(t, cfg)

	blob := `{
		"habits": [{"id": "h1", "name": "Read", "createdAt": "2024-01-01T08:00:00Z"}],
		"habit_entries": [
			{"id": "e1", "habitId": "h1", "createdAt": "2024-01-02T08:00:00Z"},
			{"id": "e2", "habitId": "h1", "createdAt": "2024-01-03T08:00:00Z"}
		]
	}`
	path := filepath.Join(t.TempDir(), "blob.json")
	require.NoError(t, os.WriteFile(path, []byte(blob), 0644))

	result, err := application.ImportLegacy(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Habits)
	assert.Equal(t, 2, result.Entries)

	_, err = application.ImportLegacy(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRunServerStopsOnCancel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Address = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Security.JWTSecret = "secret"
	application := setupTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.RunServer(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("RunServer did not return after cancel")
	}
}
