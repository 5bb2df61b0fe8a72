package pages

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"prepclock/internal/views/layout"
)

func writeSessions(b *strings.Builder, snapshot DashboardSnapshot) {
	b.WriteString(`<section id="sessions"><h2>Time tracked today</h2>`)
	b.WriteString(`<p>Total <strong data-total>`)
	b.WriteString(snapshot.Total)
	b.WriteString(`</strong></p>`)
	if len(snapshot.Sessions) == 0 {
		b.WriteString(`<p>No sessions yet today.</p>`)
	} else {
		b.WriteString(`<table><thead><tr><th>Status</th><th>Start</th><th>End</th><th>Elapsed</th></tr></thead><tbody>`)
		for _, row := range snapshot.Sessions {
			b.WriteString(`<tr data-session-id="`)
			b.WriteString(templ.EscapeString(row.ID))
			b.WriteString(`"><td>`)
			b.WriteString(templ.EscapeString(row.Status))
			b.WriteString(`</td><td>`)
			b.WriteString(templ.EscapeString(DefaultDash(row.Started)))
			b.WriteString(`</td><td>`)
			b.WriteString(templ.EscapeString(DefaultDash(row.Ended)))
			b.WriteString(`</td><td>`)
			b.WriteString(row.Elapsed)
			b.WriteString(`</td></tr>`)
		}
		b.WriteString(`</tbody></table>`)
	}
	if snapshot.Open {
		b.WriteString(`<p>A session is in progress.</p>`)
	}
	b.WriteString(`</section>`)
}

func writeNote(b *strings.Builder, snapshot DashboardSnapshot) {
	b.WriteString(`<section id="note"><h2>Today's note</h2><p>`)
	b.WriteString(templ.EscapeString(DefaultDash(snapshot.Note)))
	b.WriteString(`</p></section>`)
}

func writeMeals(b *strings.Builder, snapshot DashboardSnapshot) {
	b.WriteString(`<section id="meals"><h2>Latest meals</h2>`)
	if len(snapshot.Meals) == 0 {
		b.WriteString(`<p>No meals planned yet.</p></section>`)
		return
	}
	b.WriteString(`<ul>`)
	for _, meal := range snapshot.Meals {
		b.WriteString(`<li data-meal-id="`)
		b.WriteString(templ.EscapeString(meal.ID))
		b.WriteString(`"><strong>`)
		b.WriteString(templ.EscapeString(meal.Title))
		b.WriteString(`</strong> `)
		b.WriteString(templ.EscapeString(meal.Date))
		b.WriteString(` (`)
		b.WriteString(strconv.Itoa(meal.Recipes))
		if meal.Recipes == 1 {
			b.WriteString(` recipe)`)
		} else {
			b.WriteString(` recipes)`)
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul></section>`)
}

// DashboardPartial renders the dashboard body without the document shell.
func DashboardPartial(snapshot DashboardSnapshot) templ.Component {
	return staticComponent(func(b *strings.Builder) {
		b.WriteString(`<header class="app"><span>PrepClock`)
		if name := strings.TrimSpace(snapshot.UserName); name != "" {
			b.WriteString(` · `)
			b.WriteString(templ.EscapeString(name))
		}
		b.WriteString(`</span><a href="/logout">Sign out</a></header><main id="dashboard">`)
		if snapshot.Day != "" {
			b.WriteString(`<h1>`)
			b.WriteString(templ.EscapeString(snapshot.Day))
			b.WriteString(`</h1>`)
		}
		writeSessions(b, snapshot)
		writeNote(b, snapshot)
		writeMeals(b, snapshot)
		b.WriteString(`</main>`)
	})
}

// Dashboard renders the full dashboard page.
func Dashboard(snapshot DashboardSnapshot) templ.Component {
	return layout.Base("Today", DashboardPartial(snapshot))
}
