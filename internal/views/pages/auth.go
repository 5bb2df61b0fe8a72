// Package pages renders the server-side HTML views.
package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"prepclock/internal/views/layout"
)

func writeMessage(b *strings.Builder, message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	b.WriteString(`<p class="message" role="alert">`)
	b.WriteString(templ.EscapeString(message))
	b.WriteString(`</p>`)
}

func writeInput(b *strings.Builder, label, name, kind, value string) {
	b.WriteString(`<label>`)
	b.WriteString(templ.EscapeString(label))
	b.WriteString(` <input type="`)
	b.WriteString(kind)
	b.WriteString(`" name="`)
	b.WriteString(name)
	b.WriteString(`" value="`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`" required></label>`)
}

func staticComponent(render func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		render(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// LoginPartial renders the sign-in form alone, for HTMX swaps.
func LoginPartial(message, email string) templ.Component {
	return staticComponent(func(b *strings.Builder) {
		b.WriteString(`<main id="auth"><h1>Sign in</h1>`)
		writeMessage(b, message)
		b.WriteString(`<form class="stack" method="post" action="/login" hx-post="/login" hx-target="#auth" hx-swap="outerHTML">`)
		writeInput(b, "Email", "email", "email", email)
		b.WriteString(`<label>Password <input type="password" name="password" required></label>`)
		b.WriteString(`<button type="submit">Sign in</button></form>`)
		b.WriteString(`<p>No account yet? <a href="/signup">Create one</a>.</p></main>`)
	})
}

// Login renders the full sign-in page.
func Login(message, email string) templ.Component {
	return layout.Base("Sign in", LoginPartial(message, email))
}

// SignupPartial renders the registration form alone, for HTMX swaps.
func SignupPartial(message, name, email string) templ.Component {
	return staticComponent(func(b *strings.Builder) {
		b.WriteString(`<main id="auth"><h1>Create your account</h1>`)
		writeMessage(b, message)
		b.WriteString(`<form class="stack" method="post" action="/signup" hx-post="/signup" hx-target="#auth" hx-swap="outerHTML">`)
		writeInput(b, "Name", "name", "text", name)
		writeInput(b, "Email", "email", "email", email)
		b.WriteString(`<label>Password <input type="password" name="password" minlength="8" required></label>`)
		b.WriteString(`<label>Confirm password <input type="password" name="confirm_password" minlength="8" required></label>`)
		b.WriteString(`<button type="submit">Sign up</button></form>`)
		b.WriteString(`<p>Already registered? <a href="/login">Sign in</a>.</p></main>`)
	})
}

// Signup renders the full registration page.
func Signup(message, name, email string) templ.Component {
	return layout.Base("Sign up", SignupPartial(message, name, email))
}
