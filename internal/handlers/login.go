package handlers

import (
	"net/http"
	"strings"

	applog "prepclock/internal/log"
	"prepclock/internal/views/pages"
)

const msgSignInFailed = "We were unable to sign you in. Please try again."

// Login renders the sign-in view and processes sign-in submissions.
func Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		message := ""
		if sessionManager != nil {
			message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		}
		renderLogin(w, r, message, "")
	case http.MethodPost:
		submitLogin(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func submitLogin(w http.ResponseWriter, r *http.Request) {
	if sessionManager == nil || database == nil {
		applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
		http.Error(w, "authentication not available", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		renderLogin(w, r, "Email and password are required.", email)
		return
	}

	if !authenticate(w, r, email, password) {
		applog.Debug(r.Context(), "sign in rejected", "email", strings.ToLower(email))
		message := sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		if message == "" {
			message = msgSignInFailed
		}
		renderLogin(w, r, message, email)
		return
	}

	applog.Info(r.Context(), "user signed in", "userID", sessionManager.GetString(r.Context(), sessionUserIDKey))
	redirectToApp(w, r)
}

func renderLogin(w http.ResponseWriter, r *http.Request, message, email string) {
	renderPage(w, r, pages.Login(message, email), pages.LoginPartial(message, email))
}
