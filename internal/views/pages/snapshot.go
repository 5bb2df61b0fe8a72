package pages

import (
	"time"

	"prepclock/internal/timetrack"
	"prepclock/models"
)

// SessionRow is one time entry as shown on the dashboard.
type SessionRow struct {
	ID      string
	Status  string
	Started string
	Ended   string
	Elapsed string
}

// MealRow is one upcoming or recent meal as shown on the dashboard.
type MealRow struct {
	ID      string
	Title   string
	Date    string
	Recipes int
}

// DashboardSnapshot aggregates what the dashboard renders for one user and day.
type DashboardSnapshot struct {
	UserName string
	Day      string
	Sessions []SessionRow
	Total    string
	Open     bool
	Note     string
	Meals    []MealRow
}

// NewDashboardSnapshot formats today's entries, note and the latest meals for display.
func NewDashboardSnapshot(userName string, entries []models.TimeEntry, note *models.DailyNote, meals []models.Meal, now time.Time, loc *time.Location) DashboardSnapshot {
	if loc == nil {
		loc = time.Local
	}

	snapshot := DashboardSnapshot{
		UserName: userName,
		Day:      formatDay(now, loc),
		Total:    FormatDuration(timetrack.TotalElapsed(entries, now)),
		Sessions: make([]SessionRow, 0, len(entries)),
		Meals:    make([]MealRow, 0, len(meals)),
	}

	for _, entry := range entries {
		start := entry.StartTime
		snapshot.Sessions = append(snapshot.Sessions, SessionRow{
			ID:      entry.ID,
			Status:  StatusLabel(string(entry.Status)),
			Started: formatClock(&start, loc),
			Ended:   formatClock(entry.EndTime, loc),
			Elapsed: FormatDuration(timetrack.Elapsed(entry, now)),
		})
		if entry.Open() {
			snapshot.Open = true
		}
	}

	if note != nil {
		snapshot.Note = note.Content
	}

	for _, meal := range meals {
		snapshot.Meals = append(snapshot.Meals, MealRow{
			ID:      meal.ID,
			Title:   meal.Title,
			Date:    formatDay(meal.Date, loc),
			Recipes: len(meal.Recipes),
		})
	}

	return snapshot
}

// EmptyDashboardSnapshot returns a snapshot with no data, for when storage is unavailable.
func EmptyDashboardSnapshot() DashboardSnapshot {
	return DashboardSnapshot{Total: FormatDuration(0)}
}
