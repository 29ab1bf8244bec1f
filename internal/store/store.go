package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gmsas95/habitlens/internal/config"
	apperrors "github.com/gmsas95/habitlens/internal/errors"
	"github.com/gmsas95/habitlens/internal/insights"
	_ "github.com/glebarez/go-sqlite" // Pure Go SQLite driver
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists habits and entries in SQLite and snapshots in BadgerDB
type Store struct {
	db     *gorm.DB
	cache  *Cache
	logger *zap.Logger
}

// New opens the databases configured in cfg
func New(cfg *config.Config, log *zap.Logger) (*Store, error) {
	sqlitePath := cfg.Storage.SQLitePath
	if sqlitePath == "" {
		sqlitePath = filepath.Join(cfg.Storage.DataDir, "habitlens.db")
	}

	sqliteDB, err := sql.Open("sqlite", sqlitePath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqliteDB.SetMaxOpenConns(10)
	sqliteDB.SetMaxIdleConns(5)
	sqliteDB.SetConnMaxLifetime(time.Hour)

	db, err := gorm.Open(sqlite.Dialector{Conn: sqliteDB}, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	badgerPath := cfg.Storage.BadgerPath
	if badgerPath == "" {
		badgerPath = filepath.Join(cfg.Storage.DataDir, "cache")
	}

	cache, err := OpenCache(badgerPath, cfg.CacheTTL())
	if err != nil {
		return nil, err
	}

	s, err := NewWithDB(db, cache, log)
	if err != nil {
		cache.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an open database and migrates the schema. cache may be nil.
func NewWithDB(db *gorm.DB, cache *Cache, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if err := db.AutoMigrate(&Habit{}, &Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &Store{db: db, cache: cache, logger: log}, nil
}

// Close closes the snapshot cache and the database
func (s *Store) Close() error {
	var cacheErr error
	if s.cache != nil {
		cacheErr = s.cache.Close()
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}
	return cacheErr
}

// DB returns the GORM database instance
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Cache returns the snapshot cache, nil when none is configured
func (s *Store) Cache() *Cache {
	return s.cache
}

func queryError(err error) error {
	return apperrors.Wrap(err, apperrors.ErrStoreQuery.Code, apperrors.ErrStoreQuery.Message)
}

// ==================== Habit Methods ====================

// CreateHabit inserts a habit, assigning an ID when empty
func (s *Store) CreateHabit(ctx context.Context, habit *Habit) error {
	if err := s.db.WithContext(ctx).Create(habit).Error; err != nil {
		return queryError(err)
	}
	return nil
}

// GetHabit retrieves a habit by ID
func (s *Store) GetHabit(ctx context.Context, id string) (*Habit, error) {
	var habit Habit
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&habit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrHabitNotFound
	}
	if err != nil {
		return nil, queryError(err)
	}
	return &habit, nil
}

// ListHabits returns all habits, oldest first
func (s *Store) ListHabits(ctx context.Context) ([]Habit, error) {
	var habits []Habit
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&habits).Error; err != nil {
		return nil, queryError(err)
	}
	return habits, nil
}

// UpdateHabit saves changes to an existing habit
func (s *Store) UpdateHabit(ctx context.Context, habit *Habit) error {
	res := s.db.WithContext(ctx).Model(&Habit{}).Where("id = ?", habit.ID).Updates(map[string]any{
		"name":        habit.Name,
		"description": habit.Description,
		"color":       habit.Color,
		"icon":        habit.Icon,
		"updated_at":  time.Now(),
	})
	if res.Error != nil {
		return queryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrHabitNotFound
	}
	return nil
}

// DeleteHabit removes a habit and all of its entries
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", id).Delete(&Entry{}).Error; err != nil {
			return queryError(err)
		}
		res := tx.Where("id = ?", id).Delete(&Habit{})
		if res.Error != nil {
			return queryError(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrHabitNotFound
		}
		return nil
	})
}

// ==================== Entry Methods ====================

// SaveEntry records the entry for its habit and day, replacing an earlier
// entry for the same day. The stored ID is written back to entry.
func (s *Store) SaveEntry(ctx context.Context, entry *Entry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Habit{}).Where("id = ?", entry.HabitID).Count(&count).Error; err != nil {
			return queryError(err)
		}
		if count == 0 {
			return apperrors.ErrHabitNotFound
		}

		var existing Entry
		err := tx.Where("habit_id = ? AND date = ?", entry.HabitID, entry.Date).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(entry).Error; err != nil {
				return queryError(err)
			}
			return nil
		case err != nil:
			return queryError(err)
		}

		entry.ID = existing.ID
		if err := tx.Save(entry).Error; err != nil {
			return queryError(err)
		}
		return nil
	})
}

// GetEntry retrieves an entry by ID
func (s *Store) GetEntry(ctx context.Context, id string) (*Entry, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrEntryNotFound
	}
	if err != nil {
		return nil, queryError(err)
	}
	return &entry, nil
}

// ListEntries returns a habit's entries, newest day first
func (s *Store) ListEntries(ctx context.Context, habitID string) ([]Entry, error) {
	var entries []Entry
	err := s.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, queryError(err)
	}
	return entries, nil
}

// AllEntries returns every entry, newest day first
func (s *Store) AllEntries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.db.WithContext(ctx).Order("date DESC, created_at DESC").Find(&entries).Error; err != nil {
		return nil, queryError(err)
	}
	return entries, nil
}

// DeleteEntry removes one entry
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Entry{})
	if res.Error != nil {
		return queryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrEntryNotFound
	}
	return nil
}

// HasEntryOn reports whether the habit has an entry for the given day
func (s *Store) HasEntryOn(ctx context.Context, habitID, date string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Entry{}).
		Where("habit_id = ? AND date = ?", habitID, date).
		Count(&count).Error
	if err != nil {
		return false, queryError(err)
	}
	return count > 0, nil
}

// CountEntries returns the number of entries per habit
func (s *Store) CountEntries(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		HabitID string
		Count   int64
	}
	err := s.db.WithContext(ctx).Model(&Entry{}).
		Select("habit_id, COUNT(*) AS count").
		Group("habit_id").
		Scan(&rows).Error
	if err != nil {
		return nil, queryError(err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.HabitID] = r.Count
	}
	return counts, nil
}

// Load returns every habit and entry in analytics form
func (s *Store) Load(ctx context.Context) ([]insights.Habit, []insights.Entry, error) {
	habits, err := s.ListHabits(ctx)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.AllEntries(ctx)
	if err != nil {
		return nil, nil, err
	}
	return HabitsToInsights(habits), EntriesToInsights(entries), nil
}
