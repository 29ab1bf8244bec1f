package config

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for habitlens
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Security  SecurityConfig  `mapstructure:"security"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Address      string  `mapstructure:"address"`
	Port         int     `mapstructure:"port"`
	ReadTimeout  int     `mapstructure:"read_timeout"`
	WriteTimeout int     `mapstructure:"write_timeout"`
	IdleTimeout  int     `mapstructure:"idle_timeout"`
	RateLimit    float64 `mapstructure:"rate_limit"`
	RateBurst    int     `mapstructure:"rate_burst"`
}

// StorageConfig holds database settings
type StorageConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
	BadgerPath string `mapstructure:"badger_path"`
	CacheTTL   int    `mapstructure:"cache_ttl"`
}

// SecurityConfig holds security settings
type SecurityConfig struct {
	JWTSecret         string   `mapstructure:"jwt_secret"`
	AdminPasswordHash string   `mapstructure:"admin_password_hash"`
	TokenTTLHours     int      `mapstructure:"token_ttl_hours"`
	AllowOrigins      []string `mapstructure:"allow_origins"`
}

// SchedulerConfig holds background job settings
type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	RiskScan string `mapstructure:"risk_scan"`
	Stats    string `mapstructure:"stats"`
}

// NotifyConfig holds reminder delivery settings
type NotifyConfig struct {
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Discord  DiscordConfig  `mapstructure:"discord"`
}

// WebhookConfig holds the generic HTTP webhook settings
type WebhookConfig struct {
	URL             string      `mapstructure:"url"`
	Timeout         int         `mapstructure:"timeout"`
	MaxFailures     uint32      `mapstructure:"max_failures"`
	BreakerCooldown int         `mapstructure:"breaker_cooldown"`
	OAuth           OAuthConfig `mapstructure:"oauth"`
}

// OAuthConfig enables the client credentials flow for the webhook
type OAuthConfig struct {
	TokenURL     string   `mapstructure:"token_url"`
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	Scopes       []string `mapstructure:"scopes"`
}

// Enabled reports whether a token endpoint is configured
func (c OAuthConfig) Enabled() bool {
	return c.TokenURL != "" && c.ClientID != ""
}

// TelegramConfig holds Telegram bot settings
type TelegramConfig struct {
	Enabled  bool    `mapstructure:"enabled"`
	BotToken string  `mapstructure:"bot_token"`
	ChatIDs  []int64 `mapstructure:"chat_ids"`
}

// DiscordConfig holds Discord bot settings
type DiscordConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Token     string `mapstructure:"token"`
	ChannelID string `mapstructure:"channel_id"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
}

// AnalyticsConfig holds insight engine settings
type AnalyticsConfig struct {
	Timezone      string `mapstructure:"timezone"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
}

// Load loads configuration from file, env, and defaults
func Load(configPath, dataDir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if dataDir == "" {
		dataDir = getDefaultDataDir()
	}
	dataDir = expandPath(dataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	v.SetDefault("storage.data_dir", dataDir)
	v.SetDefault("storage.sqlite_path", filepath.Join(dataDir, "habitlens.db"))
	v.SetDefault("storage.badger_path", filepath.Join(dataDir, "cache"))

	if configPath == "" {
		configPath = filepath.Join(dataDir, "habitlens.yaml")
	}
	configPath = expandPath(configPath)

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Environment variables (HABITLENS_SERVER_PORT, HABITLENS_NOTIFY_WEBHOOK_URL, etc.)
	v.SetEnvPrefix("HABITLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loadEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)

	v.SetDefault("storage.cache_ttl", 3600)

	v.SetDefault("security.token_ttl_hours", 24*7)
	v.SetDefault("security.allow_origins", []string{"*"})

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.risk_scan", "@every 1h")
	v.SetDefault("scheduler.stats", "@every 15m")

	v.SetDefault("notify.webhook.timeout", 10)
	v.SetDefault("notify.webhook.max_failures", 3)
	v.SetDefault("notify.webhook.breaker_cooldown", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 3)

	v.SetDefault("analytics.max_concurrent", 8)
}

func getDefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "habitlens")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}

	return filepath.Join(home, ".local", "share", "habitlens")
}

// loadEnvOverrides applies env vars that need parsing or alias resolution
func loadEnvOverrides(cfg *Config) {
	getEnv := func(key, fallback string) string {
		if val := ResolveEnvWithAliases(key); val != "" {
			return val
		}
		return fallback
	}

	cfg.Server.Address = getEnv("HABITLENS_SERVER_ADDRESS", cfg.Server.Address)
	if port := os.Getenv("HABITLENS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	cfg.Security.JWTSecret = getEnv("HABITLENS_SECURITY_JWT_SECRET", cfg.Security.JWTSecret)
	cfg.Security.AdminPasswordHash = getEnv("HABITLENS_SECURITY_ADMIN_PASSWORD_HASH", cfg.Security.AdminPasswordHash)
	if origins := os.Getenv("HABITLENS_SECURITY_ALLOW_ORIGINS"); origins != "" {
		cfg.Security.AllowOrigins = splitList(origins)
	}

	cfg.Notify.Webhook.URL = getEnv("HABITLENS_NOTIFY_WEBHOOK_URL", cfg.Notify.Webhook.URL)
	cfg.Notify.Webhook.OAuth.ClientSecret = getEnv("HABITLENS_NOTIFY_WEBHOOK_OAUTH_CLIENT_SECRET", cfg.Notify.Webhook.OAuth.ClientSecret)

	cfg.Notify.Telegram.BotToken = getEnv("HABITLENS_NOTIFY_TELEGRAM_BOT_TOKEN", cfg.Notify.Telegram.BotToken)
	if ids := os.Getenv("HABITLENS_NOTIFY_TELEGRAM_CHAT_IDS"); ids != "" {
		cfg.Notify.Telegram.ChatIDs = nil
		for _, s := range splitList(ids) {
			if id, err := strconv.ParseInt(s, 10, 64); err == nil {
				cfg.Notify.Telegram.ChatIDs = append(cfg.Notify.Telegram.ChatIDs, id)
			}
		}
	}
	if cfg.Notify.Telegram.BotToken != "" && len(cfg.Notify.Telegram.ChatIDs) > 0 {
		cfg.Notify.Telegram.Enabled = true
	}

	cfg.Notify.Discord.Token = getEnv("HABITLENS_NOTIFY_DISCORD_TOKEN", cfg.Notify.Discord.Token)
	cfg.Notify.Discord.ChannelID = getEnv("HABITLENS_NOTIFY_DISCORD_CHANNEL_ID", cfg.Notify.Discord.ChannelID)
	if cfg.Notify.Discord.Token != "" && cfg.Notify.Discord.ChannelID != "" {
		cfg.Notify.Discord.Enabled = true
	}

	cfg.Logging.Level = getEnv("HABITLENS_LOGGING_LEVEL", cfg.Logging.Level)
	cfg.Analytics.Timezone = getEnv("HABITLENS_ANALYTICS_TIMEZONE", cfg.Analytics.Timezone)
	cfg.Logging.File = expandPath(cfg.Logging.File)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}

	if cfg.Server.RateLimit < 0 || cfg.Server.RateBurst < 0 {
		return fmt.Errorf("server.rate_limit and server.rate_burst must not be negative")
	}

	if cfg.Analytics.MaxConcurrent <= 0 {
		cfg.Analytics.MaxConcurrent = 1
	}

	if cfg.Analytics.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Analytics.Timezone); err != nil {
			return fmt.Errorf("analytics.timezone %q: %w", cfg.Analytics.Timezone, err)
		}
	}

	if cfg.Scheduler.Enabled {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		for name, spec := range map[string]string{"risk_scan": cfg.Scheduler.RiskScan, "stats": cfg.Scheduler.Stats} {
			if _, err := parser.Parse(spec); err != nil {
				return fmt.Errorf("scheduler.%s %q: %w", name, spec, err)
			}
		}
	}

	if cfg.Security.JWTSecret == "" {
		cfg.Security.JWTSecret = generateRandomString(32)
	}

	return nil
}

func generateRandomString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	max := big.NewInt(int64(len(letters)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = letters[i%len(letters)]
			continue
		}
		b[i] = letters[idx.Int64()]
	}
	return string(b)
}

// Location returns the configured analytics time zone, or local time
func (c *Config) Location() *time.Location {
	if c.Analytics.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Analytics.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// CacheTTL returns the snapshot cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Storage.CacheTTL) * time.Second
}

// ListenAddr returns host:port for the HTTP server
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
