package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/gmsas95/habitlens/internal/errors"
	"github.com/gmsas95/habitlens/internal/insights"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// LegacyHabit is a habit as written by the mobile app
type LegacyHabit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Blob is the key-value document exported by the mobile app
type Blob struct {
	Habits  []LegacyHabit    `json:"habits"`
	Entries []insights.Entry `json:"habit_entries"`
}

// ImportResult counts what an import wrote
type ImportResult struct {
	Habits  int `json:"habits"`
	Entries  int `json:"entries"`
	Replaced int `json:"replaced"`
	Skipped  int `json:"skipped"`
}

// ImportFile imports the blob at path
func (s *Store) ImportFile(ctx context.Context, path string, loc *time.Location) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrImportFailed.Code, "failed to open blob")
	}
	defer f.Close()

	return s.Import(ctx, f, loc)
}

// Import upserts the habits and entries of a legacy blob. Entries whose habit
// is unknown or whose time cannot be determined are skipped; a later entry
// for the same habit and day replaces an earlier one and is counted as
// Replaced rather than Entries.
func (s *Store) Import(ctx context.Context, r io.Reader, loc *time.Location) (*ImportResult, error) {
	if loc == nil {
		loc = time.Local
	}

	var blob Blob
	if err := json.NewDecoder(r).Decode(&blob); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrImportFailed.Code, "failed to decode blob")
	}

	result := &ImportResult{}
	now := time.Now()
	seen := make(map[string]struct{}, len(blob.Entries))

	for _, lh := range blob.Habits {
		if lh.ID == "" || lh.Name == "" {
			result.Skipped++
			continue
		}
		h := Habit{
			ID:          lh.ID,
			Name:        lh.Name,
			Description: lh.Description,
			Color:       lh.Color,
			Icon:        lh.Icon,
			CreatedAt:   lh.CreatedAt,
			UpdatedAt:   lh.UpdatedAt,
		}
		if h.CreatedAt.IsZero() {
			h.CreatedAt = now
		}
		if h.UpdatedAt.IsZero() {
			h.UpdatedAt = h.CreatedAt
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "color", "icon", "updated_at"}),
		}).Create(&h).Error
		if err != nil {
			return result, apperrors.Wrap(err, apperrors.ErrImportFailed.Code, fmt.Sprintf("failed to import habit %s", lh.ID))
		}
		result.Habits++
	}

	for _, le := range blob.Entries {
		day := le.Day(loc)
		if le.HabitID == "" || day.IsZero() {
			result.Skipped++
			continue
		}

		entry := &Entry{
			ID:        le.ID,
			HabitID:   le.HabitID,
			Date:      insights.DayKey(day),
			Photo:     le.Photo,
			Note:      le.Note,
			CreatedAt: le.Instant(loc),
		}
		entry.SetClassification(le.AIData)

		if err := s.SaveEntry(ctx, entry); err != nil {
			if apperrors.GetCode(err) == apperrors.ErrHabitNotFound.Code {
				result.Skipped++
				continue
			}
			return result, apperrors.Wrap(err, apperrors.ErrImportFailed.Code, "failed to import entry")
		}

		key := entry.HabitID + "|" + entry.Date
		if _, ok := seen[key]; ok {
			result.Replaced++
			continue
		}
		seen[key] = struct{}{}
		result.Entries++
	}

	s.logger.Info("Imported legacy blob",
		zap.Int("habits", result.Habits),
		zap.Int("entries", result.Entries),
		zap.Int("replaced", result.Replaced),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// Watch re-imports the blob at path whenever it is written, until ctx is
// done. onImport is called after every import attempt.
func (s *Store) Watch(ctx context.Context, path string, loc *time.Location, onImport func(*ImportResult, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are picked up
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	const settle = 200 * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.After(settle)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Blob watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			result, err := s.ImportFile(ctx, abs, loc)
			if err != nil {
				s.logger.Error("Failed to import blob", zap.String("path", abs), zap.Error(err))
			}
			if onImport != nil {
				onImport(result, err)
			}
		}
	}
}
