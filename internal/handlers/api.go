package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"prepclock/internal/fault"
	applog "prepclock/internal/log"
	"prepclock/internal/mealplan"
	"prepclock/internal/timetrack"
)

const msgInvalidPayload = "Invalid request payload"

type apiHandler func(w http.ResponseWriter, r *http.Request, owner string)

// requireAPIUser resolves the caller and rejects anonymous requests with a
// JSON 401 instead of a redirect.
func requireAPIUser(next apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if database == nil {
			applog.Debug(r.Context(), "api request without database", "path", r.URL.Path)
			writeJSONError(w, http.StatusServiceUnavailable, "Service unavailable")
			return
		}
		owner, ok := currentUserID(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := applog.WithAttrs(r.Context(), "owner", owner)
		next(w, r.WithContext(ctx), owner)
	}
}

func mealService() *mealplan.Service {
	return mealplan.New(database)
}

func trackingService() *timetrack.Service {
	return timetrack.New(database, timetrack.WithLocation(clockLocation))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFault maps err onto a status code. Internal causes are logged and
// replaced by fallback so storage details never reach the client.
func writeFault(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	kind := fault.KindOf(err)
	if kind == fault.KindInternal {
		applog.Error(r.Context(), fallback, "error", err)
	} else {
		applog.Debug(r.Context(), "request rejected", "kind", kind.String(), "error", err)
	}
	writeJSONError(w, fault.Status(kind), fault.Message(err, fallback))
}

// decodeJSON reads a JSON object from the request body. An empty body decodes
// to the zero value.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// asString unwraps a decoded JSON string. Any other JSON type yields "", false.
func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// parseTimestamp accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, clockLocation)
}
