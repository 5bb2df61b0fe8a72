package timetrack

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"prepclock/internal/db"
	"prepclock/internal/fault"
	"prepclock/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, start time.Time) (*Service, *fakeClock, *gorm.DB) {
	t.Helper()

	database, err := db.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	clock := &fakeClock{now: start}
	return New(database, WithClock(clock.Now), WithLocation(time.UTC)), clock, database
}

func TestFullSessionLifecycle(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	service, clock, _ := newTestService(t, start)
	ctx := context.Background()

	started, err := service.Start(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, started.Status)
	require.Nil(t, started.EndTime)
	require.True(t, started.StartTime.Equal(start))

	clock.Advance(30 * time.Minute)
	paused, err := service.Pause(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, started.ID, paused.ID)
	require.Equal(t, models.StatusPaused, paused.Status)
	require.Equal(t, 30*time.Minute, Elapsed(*paused, clock.Now().Add(time.Hour)))

	clock.Advance(10 * time.Minute)
	resumed, err := service.Resume(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, started.ID, resumed.ID)
	require.Equal(t, models.StatusActive, resumed.Status)

	clock.Advance(20 * time.Minute)
	stopped, err := service.Stop(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, started.ID, stopped.ID)
	require.Equal(t, models.StatusCompleted, stopped.Status)
	require.NotNil(t, stopped.EndTime)
	require.True(t, stopped.EndTime.Equal(start.Add(time.Hour)))
	require.Equal(t, time.Hour, Elapsed(*stopped, clock.Now().Add(time.Hour)))

	_, err = service.Stop(ctx, "user-1")
	require.True(t, fault.Is(err, fault.KindNotFound))
	require.Equal(t, msgNoOpen, fault.Message(err, ""))

	_, err = service.Pause(ctx, "user-1")
	require.True(t, fault.Is(err, fault.KindNotFound))
	require.Equal(t, msgNoActive, fault.Message(err, ""))

	_, err = service.Resume(ctx, "user-1")
	require.True(t, fault.Is(err, fault.KindNotFound))
	require.Equal(t, msgNoPaused, fault.Message(err, ""))

	next, err := service.Start(ctx, "user-1")
	require.NoError(t, err)
	require.NotEqual(t, started.ID, next.ID)
}

func TestStartRejectsSecondOpenSession(t *testing.T) {
	t.Parallel()

	service, _, database := newTestService(t, time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := service.Start(ctx, "user-1")
	require.NoError(t, err)

	existing, err := service.Start(ctx, "user-1")
	require.True(t, fault.Is(err, fault.KindConflict))
	require.Equal(t, msgAlreadyActive, fault.Message(err, ""))
	require.NotNil(t, existing)
	require.Equal(t, first.ID, existing.ID)

	_, err = service.Pause(ctx, "user-1")
	require.NoError(t, err)

	existing, err = service.Start(ctx, "user-1")
	require.True(t, fault.Is(err, fault.KindConflict), "a paused session is still open")
	require.Equal(t, first.ID, existing.ID)

	other, err := service.Start(ctx, "user-2")
	require.NoError(t, err)
	require.Equal(t, "user-2", other.UserID)

	var open int64
	require.NoError(t, database.Model(&models.TimeEntry{}).Where("user_id = ? AND end_time IS NULL", "user-1").Count(&open).Error)
	require.EqualValues(t, 1, open)
}

func TestStopCompletesPausedSession(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	service, clock, _ := newTestService(t, start)
	ctx := context.Background()

	_, err := service.Start(ctx, "user-1")
	require.NoError(t, err)
	clock.Advance(15 * time.Minute)
	_, err = service.Pause(ctx, "user-1")
	require.NoError(t, err)
	clock.Advance(15 * time.Minute)

	stopped, err := service.Stop(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, stopped.Status)
	require.True(t, stopped.EndTime.Equal(start.Add(30*time.Minute)))
}

func TestTodayAndRecent(t *testing.T) {
	t.Parallel()

	yesterday := time.Date(2024, 5, 5, 22, 0, 0, 0, time.UTC)
	service, clock, _ := newTestService(t, yesterday)
	ctx := context.Background()

	_, err := service.Start(ctx, "user-1")
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = service.Stop(ctx, "user-1")
	require.NoError(t, err)

	clock.Advance(10 * time.Hour)
	_, err = service.Start(ctx, "user-1")
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = service.Stop(ctx, "user-1")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	current, err := service.Start(ctx, "user-1")
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)

	today, err := service.Today(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, today, 2)
	require.Equal(t, current.ID, today[0].ID)
	require.Equal(t, time.Hour+45*time.Minute, TotalElapsed(today, clock.Now()))

	recent, err := service.Recent(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	require.Equal(t, current.ID, recent[0].ID)

	limited, err := service.Recent(ctx, "user-1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	none, err := service.Today(ctx, "user-2")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestServiceRequiresOwner(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t, time.Now())
	ctx := context.Background()

	_, err := service.Start(ctx, "")
	require.True(t, fault.Is(err, fault.KindUnauthorized))
	_, err = service.Stop(ctx, " ")
	require.True(t, fault.Is(err, fault.KindUnauthorized))
	_, err = service.Recent(ctx, "", 5)
	require.True(t, fault.Is(err, fault.KindUnauthorized))
}

func TestDayBoundsFollowsLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-5", -5*60*60)
	start, end := DayBounds(time.Date(2024, 5, 6, 2, 0, 0, 0, time.UTC), loc)
	require.True(t, start.Equal(time.Date(2024, 5, 5, 5, 0, 0, 0, time.UTC)))
	require.Equal(t, 24*time.Hour, end.Sub(start))
}
