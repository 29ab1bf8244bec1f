package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Storage.SQLitePath != filepath.Join(dataDir, "habitlens.db") {
		t.Errorf("Unexpected sqlite path %s", cfg.Storage.SQLitePath)
	}
	if cfg.Storage.BadgerPath != filepath.Join(dataDir, "cache") {
		t.Errorf("Unexpected badger path %s", cfg.Storage.BadgerPath)
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("Expected 1h cache ttl, got %v", cfg.CacheTTL())
	}
	if cfg.Scheduler.RiskScan != "@every 1h" {
		t.Errorf("Unexpected risk scan schedule %s", cfg.Scheduler.RiskScan)
	}
	if cfg.Analytics.MaxConcurrent != 8 {
		t.Errorf("Expected max_concurrent 8, got %d", cfg.Analytics.MaxConcurrent)
	}
	if len(cfg.Security.JWTSecret) != 32 {
		t.Errorf("Expected generated 32 char secret, got %d chars", len(cfg.Security.JWTSecret))
	}
	if cfg.ListenAddr() != "0.0.0.0:8080" {
		t.Errorf("Unexpected listen addr %s", cfg.ListenAddr())
	}
}

func TestLoad_FromFile(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "custom.yaml")

	content := `server:
  port: 9090
analytics:
  timezone: UTC
notify:
  webhook:
    url: http://localhost:9999/hook
security:
  jwt_secret: fixed-secret
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath, dataDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Expected UTC location, got %v", cfg.Location())
	}
	if cfg.Notify.Webhook.URL != "http://localhost:9999/hook" {
		t.Errorf("Unexpected webhook url %s", cfg.Notify.Webhook.URL)
	}
	if cfg.Notify.Webhook.MaxFailures != 3 {
		t.Errorf("Expected default max_failures 3, got %d", cfg.Notify.Webhook.MaxFailures)
	}
	if cfg.Security.JWTSecret != "fixed-secret" {
		t.Errorf("Expected configured secret, got %s", cfg.Security.JWTSecret)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HABITLENS_SERVER_PORT", "7070")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg-token")
	t.Setenv("HABITLENS_NOTIFY_TELEGRAM_CHAT_IDS", "100, 200,bad")
	t.Setenv("HABITLENS_SECURITY_ALLOW_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port 7070, got %d", cfg.Server.Port)
	}
	if !cfg.Notify.Telegram.Enabled {
		t.Error("Expected telegram to be enabled when token and chat ids are set")
	}
	if len(cfg.Notify.Telegram.ChatIDs) != 2 || cfg.Notify.Telegram.ChatIDs[1] != 200 {
		t.Errorf("Unexpected chat ids %v", cfg.Notify.Telegram.ChatIDs)
	}
	if len(cfg.Security.AllowOrigins) != 2 {
		t.Errorf("Unexpected origins %v", cfg.Security.AllowOrigins)
	}
}

func TestLoad_WebhookOAuth(t *testing.T) {
	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "oauth.yaml")

	content := `notify:
  webhook:
    url: http://localhost:9999/hook
    oauth:
      token_url: http://localhost:9999/token
      client_id: habitlens
      scopes: [notify]
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HABITLENS_NOTIFY_WEBHOOK_OAUTH_CLIENT_SECRET", "from-env")

	cfg, err := Load(configPath, dataDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	oauth := cfg.Notify.Webhook.OAuth
	if !oauth.Enabled() {
		t.Error("Expected oauth to be enabled with token url and client id")
	}
	if oauth.ClientSecret != "from-env" {
		t.Errorf("Expected client secret from env, got %q", oauth.ClientSecret)
	}
	if len(oauth.Scopes) != 1 || oauth.Scopes[0] != "notify" {
		t.Errorf("Unexpected scopes %v", oauth.Scopes)
	}
	if (OAuthConfig{TokenURL: "http://x"}).Enabled() {
		t.Error("Expected oauth disabled without client id")
	}
}

func TestLoad_InvalidSchedule(t *testing.T) {
	t.Setenv("HABITLENS_SCHEDULER_RISK_SCAN", "every now and then")

	_, err := Load("", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "scheduler.risk_scan") {
		t.Errorf("Expected schedule error, got %v", err)
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("HABITLENS_ANALYTICS_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load("", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "analytics.timezone") {
		t.Errorf("Expected timezone error, got %v", err)
	}
}

func TestConfig_LocationFallsBackToLocal(t *testing.T) {
	cfg := &Config{}
	if cfg.Location() != time.Local {
		t.Error("Expected local time when no timezone configured")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b ,c")
	if strings.Join(got, "|") != "a|b|c" {
		t.Errorf("Unexpected split result %v", got)
	}
}
