package handlers

import (
	"context"
	"net/http"

	"prepclock/internal/fault"
	"prepclock/internal/timetrack"
	"prepclock/models"
)

const (
	periodRecent = "recent"
	periodToday  = "today"
)

// Sessions lists time entries. ?period=today restricts to the current day;
// anything else returns the latest ?limit entries.
func Sessions(w http.ResponseWriter, r *http.Request) {
	requireAPIUser(func(w http.ResponseWriter, r *http.Request, owner string) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		period := r.URL.Query().Get("period")
		if period == "" {
			period = periodRecent
		}

		service := trackingService()
		var (
			entries []models.TimeEntry
			err     error
		)
		if period == periodToday {
			entries, err = service.Today(r.Context(), owner)
		} else {
			entries, err = service.Recent(r.Context(), owner, queryInt(r, "limit", 0))
		}
		if err != nil {
			writeFault(w, r, err, "Failed to retrieve time entries")
			return
		}

		now := service.Now()
		writeJSON(w, http.StatusOK, map[string]any{
			"timeEntries":  projectTimeEntries(entries, now),
			"period":       period,
			"count":        len(entries),
			"totalSeconds": int64(timetrack.TotalElapsed(entries, now).Seconds()),
		})
	})(w, r)
}

// StartSession clocks in. An already open session is reported alongside the error.
func StartSession(w http.ResponseWriter, r *http.Request) {
	requireAPIUser(func(w http.ResponseWriter, r *http.Request, owner string) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		service := trackingService()
		entry, err := service.Start(r.Context(), owner)
		if fault.Is(err, fault.KindConflict) && entry != nil {
			writeJSON(w, fault.Status(fault.KindConflict), map[string]any{
				"error":         fault.Message(err, ""),
				"activeSession": projectTimeEntry(*entry, service.Now()),
			})
			return
		}
		if err != nil {
			writeFault(w, r, err, "Failed to start time tracking session")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":   "Time tracking session started",
			"timeEntry": projectTimeEntry(*entry, service.Now()),
		})
	})(w, r)
}

// PauseSession pauses the running session.
func PauseSession(w http.ResponseWriter, r *http.Request) {
	sessionTransition(w, r, (*timetrack.Service).Pause, "Time tracking session paused", "Failed to pause time tracking session")
}

// ResumeSession resumes the most recently paused session.
func ResumeSession(w http.ResponseWriter, r *http.Request) {
	sessionTransition(w, r, (*timetrack.Service).Resume, "Time tracking session resumed", "Failed to resume time tracking session")
}

// StopSession clocks out.
func StopSession(w http.ResponseWriter, r *http.Request) {
	sessionTransition(w, r, (*timetrack.Service).Stop, "Time tracking session stopped", "Failed to stop time tracking session")
}

type transitionFunc func(*timetrack.Service, context.Context, string) (*models.TimeEntry, error)

func sessionTransition(w http.ResponseWriter, r *http.Request, transition transitionFunc, success, failure string) {
	requireAPIUser(func(w http.ResponseWriter, r *http.Request, owner string) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		service := trackingService()
		entry, err := transition(service, r.Context(), owner)
		if err != nil {
			writeFault(w, r, err, failure)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":   success,
			"timeEntry": projectTimeEntry(*entry, service.Now()),
		})
	})(w, r)
}
