package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	applog "prepclock/internal/log"
	"prepclock/internal/views/pages"
)

const (
	minPasswordLength   = 8
	msgSignupFailed     = "We couldn't create your account right now. Please try again."
	msgSignupNoSession  = "We couldn't sign you in after creating your account. Please try again."
	msgSignupDuplicated = "An account with that email already exists."
)

type signupForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

func parseSignupForm(r *http.Request) signupForm {
	return signupForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm_password"),
	}
}

// problem returns the first message describing what is wrong with the form,
// or "" when it is acceptable.
func (f signupForm) problem() string {
	switch {
	case f.Email == "" || !strings.Contains(f.Email, "@"):
		return "Please provide a valid email address."
	case len(f.Password) < minPasswordLength:
		return "Password must be at least 8 characters long."
	case f.Password != f.Confirm:
		return "Passwords do not match."
	default:
		return ""
	}
}

// Signup displays the account creation form and processes new registrations.
func Signup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		renderSignup(w, r, "", signupForm{})
	case http.MethodPost:
		submitSignup(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func submitSignup(w http.ResponseWriter, r *http.Request) {
	if sessionManager == nil || database == nil {
		applog.Debug(r.Context(), "registration dependencies unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
		http.Error(w, "registration not available", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	form := parseSignupForm(r)
	if problem := form.problem(); problem != "" {
		applog.Debug(r.Context(), "signup rejected", "reason", problem)
		renderSignup(w, r, problem, form)
		return
	}

	_, err := findUserByEmail(r, form.Email)
	switch {
	case err == nil:
		renderSignup(w, r, msgSignupDuplicated, form)
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		applog.Error(r.Context(), "failed to check existing user", "error", err)
		renderSignup(w, r, msgSignupFailed, form)
		return
	}

	user, err := createUser(r, form.Email, form.Name, form.Password)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		renderSignup(w, r, msgSignupDuplicated, form)
		return
	}
	if err != nil {
		applog.Error(r.Context(), "failed to create user", "error", err)
		renderSignup(w, r, msgSignupFailed, form)
		return
	}

	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session after signup", "error", err)
		renderSignup(w, r, msgSignupNoSession, form)
		return
	}

	applog.Info(r.Context(), "user registered", "userID", user.ID)
	redirectToApp(w, r)
}

func renderSignup(w http.ResponseWriter, r *http.Request, message string, form signupForm) {
	renderPage(w, r, pages.Signup(message, form.Name, form.Email), pages.SignupPartial(message, form.Name, form.Email))
}
