// Package timetrack implements clock-in sessions and daily notes.
//
// A user has at most one open session at a time. A session moves
// ACTIVE -> PAUSED -> ACTIVE ... -> COMPLETED; COMPLETED is terminal.
package timetrack

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"prepclock/internal/fault"
	applog "prepclock/internal/log"
	"prepclock/models"
)

const (
	msgAlreadyActive = "You already have an active time tracking session"
	msgNoActive      = "No active time tracking session found"
	msgNoPaused      = "No paused time tracking session found"
	msgNoOpen        = "No open time tracking session found"

	defaultRecentLimit = 50
	maxRecentLimit     = 500
	resumeWindow       = 10
)

// Service runs the session state machine against the time_entries and
// daily_notes tables.
type Service struct {
	db  *gorm.DB
	now func() time.Time
	loc *time.Location
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New builds a Service on top of db.
func New(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Location returns the time zone used for calendar days.
func (s *Service) Location() *time.Location {
	return s.loc
}

func requireOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return fault.Unauthorized()
	}
	return nil
}

func openEntries(owner string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND end_time IS NULL AND status IN ?", owner,
			[]models.TimeEntryStatus{models.StatusActive, models.StatusPaused})
	}
}

func findOpen(tx *gorm.DB, owner string, status models.TimeEntryStatus) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := tx.Scopes(openEntries(owner)).
		Where("status = ?", status).
		Order("start_time desc").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func findAnyOpen(tx *gorm.DB, owner string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := tx.Scopes(openEntries(owner)).Order("start_time desc").First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Start opens a new ACTIVE session. When the user already has an open session
// it is returned together with a conflict fault.
func (s *Service) Start(ctx context.Context, owner string) (*models.TimeEntry, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry := models.TimeEntry{
		Model:     models.Model{CreatedAt: now, UpdatedAt: now},
		UserID:    owner,
		StartTime: now,
		Status:    models.StatusActive,
	}

	var existing *models.TimeEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		open, err := findAnyOpen(tx, owner)
		switch {
		case err == nil:
			existing = open
			return fault.Conflict(msgAlreadyActive)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return tx.Create(&entry).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent start; report the winner.
		if open, lookupErr := findAnyOpen(s.db.WithContext(ctx), owner); lookupErr == nil {
			existing = open
		}
		err = fault.Conflict(msgAlreadyActive)
	}
	if err != nil {
		if fault.Is(err, fault.KindConflict) {
			return existing, err
		}
		return nil, fault.Internal("start session", err)
	}

	applog.Info(ctx, "time tracking session started", "owner", owner, "entryID", entry.ID)
	return &entry, nil
}

// transition moves the entry chosen by pick to status "to". The UPDATE is
// conditional on the entry still being open in its expected status, so a
// concurrent transition makes this one fail as not found.
func (s *Service) transition(
	ctx context.Context,
	owner string,
	to models.TimeEntryStatus,
	missing string,
	pick func(tx *gorm.DB) (*models.TimeEntry, error),
) (*models.TimeEntry, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var updated models.TimeEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := pick(tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fault.NotFound(missing)
		}
		if err != nil {
			return err
		}

		changes := map[string]any{"status": to, "updated_at": now}
		if to == models.StatusCompleted {
			changes["end_time"] = now
		}
		result := tx.Model(&models.TimeEntry{}).
			Where("id = ? AND user_id = ? AND status = ? AND end_time IS NULL", entry.ID, owner, entry.Status).
			Updates(changes)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fault.NotFound(missing)
		}
		return tx.Where("id = ?", entry.ID).First(&updated).Error
	})
	if err != nil {
		var fe *fault.Error
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, fault.Internal("update session", err)
	}

	applog.Info(ctx, "time tracking session updated", "owner", owner, "entryID", updated.ID, "status", string(updated.Status))
	return &updated, nil
}

// Pause suspends the user's ACTIVE session.
func (s *Service) Pause(ctx context.Context, owner string) (*models.TimeEntry, error) {
	return s.transition(ctx, owner, models.StatusPaused, msgNoActive, func(tx *gorm.DB) (*models.TimeEntry, error) {
		return findOpen(tx, owner, models.StatusActive)
	})
}

// Resume reactivates the most recently started PAUSED session among the
// user's latest entries.
func (s *Service) Resume(ctx context.Context, owner string) (*models.TimeEntry, error) {
	return s.transition(ctx, owner, models.StatusActive, msgNoPaused, func(tx *gorm.DB) (*models.TimeEntry, error) {
		var latest []models.TimeEntry
		if err := tx.Where("user_id = ?", owner).Order("start_time desc").Limit(resumeWindow).Find(&latest).Error; err != nil {
			return nil, err
		}
		for i := range latest {
			if latest[i].Status == models.StatusPaused && latest[i].EndTime == nil {
				return &latest[i], nil
			}
		}
		return nil, gorm.ErrRecordNotFound
	})
}

// Stop completes the user's open session, preferring an ACTIVE one over a PAUSED one.
func (s *Service) Stop(ctx context.Context, owner string) (*models.TimeEntry, error) {
	return s.transition(ctx, owner, models.StatusCompleted, msgNoOpen, func(tx *gorm.DB) (*models.TimeEntry, error) {
		entry, err := findOpen(tx, owner, models.StatusActive)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return findOpen(tx, owner, models.StatusPaused)
		}
		return entry, err
	})
}

// Today lists the sessions started on the current calendar day, newest first.
func (s *Service) Today(ctx context.Context, owner string) ([]models.TimeEntry, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	start, end := DayBounds(s.now(), s.loc)
	var entries []models.TimeEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND start_time >= ? AND start_time < ?", owner, start.UTC(), end.UTC()).
		Order("start_time desc").
		Find(&entries).Error; err != nil {
		return nil, fault.Internal("list today's sessions", err)
	}
	return entries, nil
}

// Recent lists the user's latest sessions, newest first. A non-positive limit
// falls back to the default.
func (s *Service) Recent(ctx context.Context, owner string, limit int) ([]models.TimeEntry, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	var entries []models.TimeEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("start_time desc").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fault.Internal("list sessions", err)
	}
	return entries, nil
}

// DayBounds returns local midnight of t's day in loc and the following midnight.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
