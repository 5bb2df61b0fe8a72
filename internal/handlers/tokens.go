package handlers

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	applog "prepclock/internal/log"
)

// IssueToken exchanges email and password for a bearer token.
func IssueToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if database == nil || !tokenIssuer.Enabled() {
		writeJSONError(w, http.StatusServiceUnavailable, "Token authentication is not available")
		return
	}

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid token request payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := verifyCredentials(r, email, payload.Password)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			applog.Debug(r.Context(), "token request with invalid credentials", "email", strings.ToLower(email))
			writeJSONError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		applog.Error(r.Context(), "failed to verify credentials for token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	token, expiresAt, err := tokenIssuer.Issue(user.ID)
	if err != nil {
		applog.Error(r.Context(), "failed to issue token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	applog.Info(r.Context(), "bearer token issued", "userID", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"expiresAt": expiresAt.UTC(),
	})
}
