package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"prepclock/internal/handlers"
	applog "prepclock/internal/log"
)

type route struct {
	pattern   string
	handler   http.HandlerFunc
	protected bool
}

var routes = []route{
	{pattern: "/healthz", handler: handlers.Health},
	{pattern: "/login", handler: handlers.Login},
	{pattern: "/signup", handler: handlers.Signup},
	{pattern: "/logout", handler: handlers.Logout},
	{pattern: "/app", handler: handlers.Dashboard, protected: true},

	{pattern: "POST /api/auth/token", handler: handlers.IssueToken},
	{pattern: "/api/meals", handler: handlers.Meals},
	{pattern: "/api/meals/{id}", handler: handlers.Meal},
	{pattern: "/api/recipes", handler: handlers.Recipes},
	{pattern: "/api/recipes/{id}", handler: handlers.Recipe},
	{pattern: "/api/recipes/{id}/ingredients", handler: handlers.RecipeIngredients},
	{pattern: "/api/notes", handler: handlers.Notes},
	{pattern: "/api/sessions", handler: handlers.Sessions},
	{pattern: "/api/sessions/start", handler: handlers.StartSession},
	{pattern: "/api/sessions/pause", handler: handlers.PauseSession},
	{pattern: "/api/sessions/resume", handler: handlers.ResumeSession},
	{pattern: "/api/sessions/stop", handler: handlers.StopSession},

	{pattern: "/", handler: handlers.Home},
}

func newRouter() http.Handler {
	mux := http.NewServeMux()
	for _, rt := range routes {
		var h http.Handler = rt.handler
		if rt.protected {
			h = handlers.RequireAuthentication(h)
		}
		mux.Handle(rt.pattern, h)
		applog.Debug(context.Background(), "route registered", "path", rt.pattern, "protected", rt.protected)
	}
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests tags each request with an id and logs its outcome.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := applog.WithAttrs(r.Context(), "requestID", requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		applog.Debug(ctx, "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(started).String(),
		)
	})
}
