package handlers

import "net/http"

// Home sends signed-in users to the dashboard and everyone else to the login page.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if ActiveSession(r) {
		redirectToApp(w, r)
		return
	}
	redirectToLogin(w, r)
}
