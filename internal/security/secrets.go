package security

import (
	"regexp"

	"go.uber.org/zap"
)

// SecretMatch is one credential found in a string
type SecretMatch struct {
	Type  string
	Start int
	End   int
}

type SecretScanner struct {
	patterns []*secretPattern
}

type secretPattern struct {
	name       string
	regex      *regexp.Regexp
	redactWith string
}

// Credentials that can show up in notifier errors and request logs
var defaultSecretPatterns = []struct {
	name       string
	pattern    string
	redactWith string
}{
	{"Telegram Bot Token", `bot[0-9]{8,10}:[a-zA-Z0-9_-]{35}`, "bot****"},
	{"Telegram Token", `[0-9]{8,10}:[a-zA-Z0-9_-]{35}`, "****:****"},
	{"Discord Token", `[MN][a-zA-Z\d]{23}\.[\w-]{6}\.[\w-]{27}`, "DISCORD_TOKEN****"},
	{"Discord Webhook", `https://(?:canary\.|ptb\.)?discord(?:app)?\.com/api/webhooks/[0-9]+/[\w-]+`, "https://discord.com/api/webhooks/****"},
	{"Slack Webhook", `https://hooks\.slack\.com/services/[\w/]+`, "https://hooks.slack.com/****"},
	{"JWT Token", `eyJ[a-zA-Z0-9\-_]+\.eyJ[a-zA-Z0-9\-_]+\.[a-zA-Z0-9\-_]+`, "eyJ****"},
	{"Bcrypt Hash", `\$2[aby]\$[0-9]{2}\$[./A-Za-z0-9]{53}`, "$$2****"},
	{"Generic Secret", `(?i)(secret|password|passwd|token)=[^\s&'"]{8,}`, "$1=****"},
}

func NewSecretScanner() *SecretScanner {
	scanner := &SecretScanner{
		patterns: make([]*secretPattern, 0, len(defaultSecretPatterns)),
	}

	for _, p := range defaultSecretPatterns {
		scanner.patterns = append(scanner.patterns, &secretPattern{
			name:       p.name,
			regex:      regexp.MustCompile(p.pattern),
			redactWith: p.redactWith,
		})
	}

	return scanner
}

func (s *SecretScanner) Scan(input string) []SecretMatch {
	var matches []SecretMatch

	for _, pattern := range s.patterns {
		for _, loc := range pattern.regex.FindAllStringIndex(input, -1) {
			matches = append(matches, SecretMatch{
				Type:  pattern.name,
				Start: loc[0],
				End:   loc[1],
			})
		}
	}

	return matches
}

func (s *SecretScanner) HasSecrets(input string) bool {
	for _, pattern := range s.patterns {
		if pattern.regex.MatchString(input) {
			return true
		}
	}
	return false
}

func (s *SecretScanner) Redact(input string) string {
	result := input
	for _, pattern := range s.patterns {
		result = pattern.regex.ReplaceAllString(result, pattern.redactWith)
	}
	return result
}

var defaultScanner = NewSecretScanner()

func HasSecrets(input string) bool {
	return defaultScanner.HasSecrets(input)
}

func RedactSecrets(input string) string {
	return defaultScanner.Redact(input)
}

// ErrorField is zap.Error with credentials stripped from the message
func ErrorField(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error", defaultScanner.Redact(err.Error()))
}
