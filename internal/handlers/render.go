package handlers

import (
	"net/http"

	"github.com/a-h/templ"

	applog "prepclock/internal/log"
)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" || r.Header.Get("HX-Boosted") == "true"
}

// renderPage writes the partial for HTMX requests and the full page otherwise.
func renderPage(w http.ResponseWriter, r *http.Request, page, partial templ.Component) {
	component := page
	if isHTMX(r) {
		component = partial
	}
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
