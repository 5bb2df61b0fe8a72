package timetrack

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prepclock/internal/fault"
	applog "prepclock/internal/log"
	"prepclock/models"
)

const (
	msgContentRequired = "Content is required and must be a string"
	msgInvalidDate     = "Date must be YYYY-MM-DD or an RFC 3339 timestamp"

	dayLayout = "2006-01-02"
)

// DayOf returns the calendar day t falls on in loc, as midnight UTC.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay resolves a client-supplied date. A bare YYYY-MM-DD is taken as is;
// a full timestamp is first converted into loc. An empty value means today.
func ParseDay(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DayOf(now, loc), nil
	}
	if day, err := time.ParseInLocation(dayLayout, raw, time.UTC); err == nil {
		return day, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return DayOf(ts, loc), nil
	}
	return time.Time{}, fault.Validation(msgInvalidDate)
}

// TodayDate returns the current calendar day as midnight UTC.
func (s *Service) TodayDate() time.Time {
	return DayOf(s.now(), s.loc)
}

func noteOnDay(db *gorm.DB, owner string, day time.Time) (*models.DailyNote, error) {
	start := DayOf(day, time.UTC)
	var note models.DailyNote
	err := db.Where("user_id = ? AND date >= ? AND date < ?", owner, start, start.AddDate(0, 0, 1)).
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Note returns the user's note for day, or nil when none was written.
func (s *Service) Note(ctx context.Context, owner string, day time.Time) (*models.DailyNote, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	note, err := noteOnDay(s.db.WithContext(ctx), owner, day)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fault.Internal("load daily note", err)
	}
	return note, nil
}

// SaveNote writes the user's note for day, replacing any existing content.
func (s *Service) SaveNote(ctx context.Context, owner, content string, day time.Time) (*models.DailyNote, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fault.Validation(msgContentRequired)
	}

	now := s.now().UTC()
	day = DayOf(day, time.UTC)
	note := models.DailyNote{
		Model:   models.Model{CreatedAt: now, UpdatedAt: now},
		UserID:  owner,
		Content: content,
		Date:    datatypes.Date(day),
	}

	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{"content": content, "updated_at": now}),
	}).Create(&note).Error
	if err != nil {
		return nil, fault.Internal("save daily note", err)
	}

	stored, err := noteOnDay(db, owner, day)
	if err != nil {
		return nil, fault.Internal("reload daily note", err)
	}

	applog.Debug(ctx, "daily note saved", "owner", owner, "date", day.Format(dayLayout), "noteID", stored.ID)
	return stored, nil
}
