package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestBaseWrapsContent(t *testing.T) {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>inner</p>")
		return err
	})

	var buf bytes.Buffer
	if err := Base("Today <&>", content).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render base: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Fatalf("expected doctype prefix: %s", out)
	}
	if !strings.Contains(out, "<p>inner</p>") {
		t.Fatalf("expected inner content to be rendered: %s", out)
	}
	if !strings.Contains(out, "Today &lt;&amp;&gt;") {
		t.Fatalf("expected title to be escaped: %s", out)
	}
	if !strings.HasSuffix(out, "</body></html>") {
		t.Fatalf("expected closing tags: %s", out)
	}
}

func TestBaseWithoutContent(t *testing.T) {
	var buf bytes.Buffer
	if err := Base("Empty", nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render base: %v", err)
	}
	if !strings.Contains(buf.String(), "<body") {
		t.Fatal("expected body element")
	}
}
