package notify

import (
	"context"
	"sync"

	"github.com/gmsas95/habitlens/internal/dashboard"
	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/gmsas95/habitlens/internal/security"
	"go.uber.org/zap"
)

// Marker remembers which habits were already reminded on a given day
type Marker interface {
	MarkOnce(habitID, day string) (bool, error)
}

// MemoryMarker is a process-local Marker
type MemoryMarker struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewMemoryMarker creates an empty marker
func NewMemoryMarker() *MemoryMarker {
	return &MemoryMarker{seen: make(map[string]bool)}
}

// MarkOnce implements Marker
func (m *MemoryMarker) MarkOnce(habitID, day string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := day + ":" + habitID
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

// Reminder sends urgent alerts, at most once per habit per day
type Reminder struct {
	notifier Notifier
	marker   Marker
	logger   *zap.Logger
}

// NewReminder creates a reminder. A nil marker keeps state in memory.
func NewReminder(n Notifier, marker Marker, logger *zap.Logger) *Reminder {
	if marker == nil {
		marker = NewMemoryMarker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reminder{notifier: n, marker: marker, logger: logger}
}

// SendUrgent notifies about every urgent alert in the insights not yet sent
// on day. It returns the number of reminders delivered.
func (r *Reminder) SendUrgent(ctx context.Context, in *dashboard.Insights, day string) int {
	if in == nil || in.RiskAlerts == nil {
		return 0
	}

	sent := 0
	for _, alert := range in.RiskAlerts.Urgent {
		if ctx.Err() != nil {
			break
		}
		key := alert.HabitID
		if key == "" {
			key = alert.HabitName
		}

		first, err := r.marker.MarkOnce(key, day)
		if err != nil {
			r.logger.Warn("Failed to record reminder", zap.String("habit_id", key), zap.Error(err))
			continue
		}
		if !first {
			continue
		}

		if err := r.notifier.Notify(ctx, MessageFromAlert(alert, day)); err != nil {
			r.logger.Warn("Reminder not delivered", zap.String("habit_id", key), security.ErrorField(err))
			continue
		}
		sent++
	}
	return sent
}

// MessageFromAlert converts a predictive alert into a reminder
func MessageFromAlert(a insights.Alert, day string) Message {
	return Message{
		HabitID:   a.HabitID,
		HabitName: a.HabitName,
		Severity:  string(a.Type),
		Title:     a.Title,
		Body:      a.Message,
		Action:    a.Action,
		Day:       day,
	}
}
