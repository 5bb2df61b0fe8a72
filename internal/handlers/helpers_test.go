package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"prepclock/internal/db"
)

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

func withTestDatabase(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	original := database
	conn, err := db.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	database = conn
	return conn, func() {
		database = original
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

// withAPI installs a session manager and a fresh database for one test.
func withAPI(t *testing.T) (*scs.SessionManager, *gorm.DB) {
	t.Helper()
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	conn, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)
	return sm, conn
}

// authenticatedRequest builds a request whose session belongs to userID.
func authenticatedRequest(t *testing.T, sm *scs.SessionManager, method, target, body, userID string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	req = req.WithContext(ctx)
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	sm.Put(req.Context(), sessionUserIDKey, userID)
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	expectStatus(t, w, status)
	if got := decodeBody(t, w)["error"]; got != message {
		t.Fatalf("expected error %q, got %v", message, got)
	}
}
