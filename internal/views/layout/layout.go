// Package layout provides the HTML shell shared by every page.
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const stylesheet = `body{font-family:system-ui,sans-serif;margin:0;background:#f7f7f5;color:#1f2328}
main{max-width:960px;margin:0 auto;padding:2rem 1rem}
header.app{display:flex;justify-content:space-between;align-items:center;padding:1rem;background:#1f2328;color:#fff}
header.app a{color:#fff}
section{background:#fff;border-radius:8px;padding:1rem 1.5rem;margin-bottom:1.5rem}
table{width:100%;border-collapse:collapse}
td,th{text-align:left;padding:.4rem;border-bottom:1px solid #eee}
.message{color:#b42318}
form.stack{display:flex;flex-direction:column;gap:.75rem;max-width:360px}`

// Base wraps content in a complete HTML document titled title.
func Base(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(title)+` · PrepClock</title>`+
			`<style>`+stylesheet+`</style>`+
			`<script src="https://unpkg.com/htmx.org@1.9.12" defer></script>`+
			`</head><body hx-boost="true">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
