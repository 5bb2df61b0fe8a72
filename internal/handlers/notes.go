package handlers

import (
	"net/http"

	"prepclock/internal/fault"
	applog "prepclock/internal/log"
	"prepclock/internal/timetrack"
)

// Notes serves the daily note: GET reads the note for ?date (default today),
// POST upserts it.
func Notes(w http.ResponseWriter, r *http.Request) {
	requireAPIUser(func(w http.ResponseWriter, r *http.Request, owner string) {
		switch r.Method {
		case http.MethodGet:
			showNote(w, r, owner)
		case http.MethodPost:
			saveNote(w, r, owner)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})(w, r)
}

func showNote(w http.ResponseWriter, r *http.Request, owner string) {
	service := trackingService()
	day, err := timetrack.ParseDay(r.URL.Query().Get("date"), service.Now(), service.Location())
	if err != nil {
		writeFault(w, r, err, "Failed to retrieve daily note")
		return
	}

	note, err := service.Note(r.Context(), owner, day)
	if err != nil {
		writeFault(w, r, err, "Failed to retrieve daily note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dailyNote": projectDailyNote(note),
		"date":      day.Format("2006-01-02"),
	})
}

func saveNote(w http.ResponseWriter, r *http.Request, owner string) {
	var payload struct {
		Content any `json:"content"`
		Date    any `json:"date"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid note payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	content, ok := asString(payload.Content)
	if !ok {
		writeFault(w, r, fault.Validation("Content is required and must be a string"), "Failed to save daily note")
		return
	}
	rawDate, _ := asString(payload.Date)

	service := trackingService()
	day, err := timetrack.ParseDay(rawDate, service.Now(), service.Location())
	if err != nil {
		writeFault(w, r, err, "Failed to save daily note")
		return
	}

	note, err := service.SaveNote(r.Context(), owner, content, day)
	if err != nil {
		writeFault(w, r, err, "Failed to save daily note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Daily note saved successfully",
		"dailyNote": projectDailyNote(note),
	})
}
