// Package notify delivers habit reminders to outbound channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/gmsas95/habitlens/internal/errors"
	"github.com/gmsas95/habitlens/internal/metrics"
	"github.com/gmsas95/habitlens/internal/security"
	"go.uber.org/zap"
)

// Message is a reminder about one habit
type Message struct {
	HabitID   string `json:"habitId"`
	HabitName string `json:"habitName"`
	Severity  string `json:"severity"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Action    string `json:"action,omitempty"`
	Day       string `json:"day"`
}

// Text renders the message as a short plain-text reminder
func (m Message) Text() string {
	text := fmt.Sprintf("%s: %s\n%s", m.HabitName, m.Title, m.Body)
	if m.Action != "" {
		text += "\n" + m.Action
	}
	return text
}

// Notifier delivers a message to one channel
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// Multi fans a message out to several notifiers
type Multi struct {
	notifiers []Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewMulti combines notifiers. Nil entries are ignored.
func NewMulti(logger *zap.Logger, m *metrics.Metrics, notifiers ...Notifier) *Multi {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.Default()
	}
	out := &Multi{metrics: m, logger: logger}
	for _, n := range notifiers {
		if n != nil {
			out.notifiers = append(out.notifiers, n)
		}
	}
	return out
}

// Name implements Notifier
func (m *Multi) Name() string { return "multi" }

// Len returns the number of configured notifiers
func (m *Multi) Len() int { return len(m.notifiers) }

// Notify sends msg through every notifier concurrently. It fails only when
// every notifier fails.
func (m *Multi) Notify(ctx context.Context, msg Message) error {
	if len(m.notifiers) == 0 {
		return apperrors.ErrNotifierNotConfigured
	}

	errs := make([]error, len(m.notifiers))
	var wg sync.WaitGroup
	for i, n := range m.notifiers {
		wg.Add(1)
		go func(i int, n Notifier) {
			defer wg.Done()
			err := n.Notify(ctx, msg)
			m.metrics.RecordNotification(err == nil)
			if err != nil {
				m.logger.Warn("Notification failed",
					zap.String("notifier", n.Name()),
					zap.String("habit_id", msg.HabitID),
					security.ErrorField(err),
				)
				errs[i] = fmt.Errorf("%s: %w", n.Name(), err)
			}
		}(i, n)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(m.notifiers) {
		return apperrors.Wrap(errors.Join(errs...), apperrors.ErrNotifierUnavailable.Code, apperrors.ErrNotifierUnavailable.Message)
	}
	return nil
}
