package handlers

import (
	"net/http"

	applog "prepclock/internal/log"
	"prepclock/internal/mealplan"
	"prepclock/internal/views/pages"
)

const dashboardMealCount = 5

// Dashboard renders today's sessions, note and the latest meals once a user is authenticated.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	snapshot := loadDashboard(r)
	renderPage(w, r, pages.Dashboard(snapshot), pages.DashboardPartial(snapshot))
}

// loadDashboard gathers the dashboard data. Failures are logged and leave the
// affected section empty.
func loadDashboard(r *http.Request) pages.DashboardSnapshot {
	owner, ok := sessionUserID(r)
	if !ok || database == nil {
		return pages.EmptyDashboardSnapshot()
	}

	ctx := applog.WithAttrs(r.Context(), "owner", owner)
	tracking := trackingService()

	entries, err := tracking.Today(ctx, owner)
	if err != nil {
		applog.Error(ctx, "failed to load today's sessions", "error", err)
	}
	note, err := tracking.Note(ctx, owner, tracking.TodayDate())
	if err != nil {
		applog.Error(ctx, "failed to load today's note", "error", err)
	}
	meals, _, err := mealService().ListMeals(ctx, owner, mealplan.MealQuery{Page: 1, Limit: dashboardMealCount})
	if err != nil {
		applog.Error(ctx, "failed to load latest meals", "error", err)
	}

	name := sessionManager.GetString(r.Context(), sessionUserNameKey)
	if name == "" {
		name = sessionManager.GetString(r.Context(), sessionUserEmailKey)
	}
	return pages.NewDashboardSnapshot(name, entries, note, meals, tracking.Now(), tracking.Location())
}
