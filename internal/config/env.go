package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// envFilePaths lists the .env files consulted at startup, nearest first
func envFilePaths() []string {
	paths := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".habitlens", ".env"),
			filepath.Join(home, ".config", "habitlens", ".env"),
		)
	}
	return paths
}

// LoadEnvFiles reads .env files without overriding variables already set
func LoadEnvFiles() error {
	for _, path := range envFilePaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := loadEnvFile(path); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := parseEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// parseEnvLine splits KEY=value, accepting an optional export prefix.
// Blank lines and comments report ok=false.
func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return "", "", false
	}

	key, value, ok = strings.Cut(strings.TrimPrefix(line, "export "), "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", false
	}
	return key, unquote(strings.TrimSpace(value)), true
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	if q := v[0]; (q == '"' || q == '\'') && v[len(v)-1] == q {
		return v[1 : len(v)-1]
	}
	return v
}

// GetEnvWithFallback returns the first non-empty variable among keys
func GetEnvWithFallback(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

func GetEnvDefault(key, fallback string) string {
	if val := GetEnvWithFallback(key); val != "" {
		return val
	}
	return fallback
}

var envAliases = map[string][]string{
	"HABITLENS_NOTIFY_TELEGRAM_BOT_TOKEN":    {"TELEGRAM_BOT_TOKEN"},
	"HABITLENS_NOTIFY_DISCORD_TOKEN":         {"DISCORD_BOT_TOKEN", "DISCORD_TOKEN"},
	"HABITLENS_NOTIFY_DISCORD_CHANNEL_ID":    {"DISCORD_CHANNEL_ID"},
	"HABITLENS_NOTIFY_WEBHOOK_URL":           {"HABITLENS_WEBHOOK_URL"},
	"HABITLENS_SECURITY_JWT_SECRET":          {"HABITLENS_JWT_SECRET"},
	"HABITLENS_SECURITY_ADMIN_PASSWORD_HASH": {"HABITLENS_ADMIN_PASSWORD_HASH"},
}

// ResolveEnvWithAliases reads canonicalKey, then its short aliases
func ResolveEnvWithAliases(canonicalKey string) string {
	return GetEnvWithFallback(append([]string{canonicalKey}, envAliases[canonicalKey]...)...)
}

// expandPath resolves a leading ~ to the user's home directory
func expandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
