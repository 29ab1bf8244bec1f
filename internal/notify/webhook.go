package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gmsas95/habitlens/internal/config"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Webhook posts reminders as JSON to an HTTP endpoint behind a circuit breaker
type Webhook struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[int]
	logger  *zap.Logger
}

// NewWebhook creates a webhook notifier
func NewWebhook(cfg config.WebhookConfig, logger *zap.Logger) *Webhook {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	cooldown := time.Duration(cfg.BreakerCooldown) * time.Second
	if cooldown <= 0 {
		cooldown = time.Minute
	}

	w := &Webhook{
		url:    cfg.URL,
		client: newHTTPClient(cfg.OAuth, timeout),
		logger: logger,
	}
	w.breaker = gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        "webhook",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Webhook breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return w
}

// newHTTPClient returns a client that fetches and refreshes a bearer token
// when OAuth is configured
func newHTTPClient(cfg config.OAuthConfig, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	if !cfg.Enabled() {
		return base
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := cc.Client(ctx)
	client.Timeout = timeout
	return client
}

// Name implements Notifier
func (w *Webhook) Name() string { return "webhook" }

// State reports the breaker state
func (w *Webhook) State() gobreaker.State {
	return w.breaker.State()
}

// Notify implements Notifier
func (w *Webhook) Notify(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	_, err = w.breaker.Execute(func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "habitlens")

		resp, err := w.client.Do(req)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 300 {
			return resp.StatusCode, fmt.Errorf("webhook returned %d", resp.StatusCode)
		}
		return resp.StatusCode, nil
	})
	return err
}
