package web

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"
)

func TestTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"layouts/base.html":      {Data: []byte(`{{define "base"}}<main>{{template "content" .}}</main>{{end}}`)},
		"pages/home.html":        {Data: []byte(`{{define "content"}}{{template "greeting" .}}{{end}}`)},
		"partials/greeting.html": {Data: []byte(`{{define "greeting"}}hola {{.}}{{end}}`)},
	}

	tmpl, err := NewTemplates(fsys)
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Render(&buf, "home", "Luna"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := buf.String(); got != "<main>hola Luna</main>" {
		t.Errorf("Render() = %q", got)
	}

	buf.Reset()
	if err := tmpl.RenderPartial(&buf, "greeting", "Sol"); err != nil {
		t.Fatalf("RenderPartial() error = %v", err)
	}
	if got := buf.String(); got != "hola Sol" {
		t.Errorf("RenderPartial() = %q", got)
	}

	if err := tmpl.Render(&buf, "missing", nil); err == nil {
		t.Error("Render() of unknown page should fail")
	}
	if err := tmpl.RenderPartial(&buf, "missing", nil); err == nil {
		t.Error("RenderPartial() of unknown partial should fail")
	}
}

func TestTemplateFuncs(t *testing.T) {
	funcs := defaultFuncs()

	moodColor := funcs["moodColor"].(func(float64, float64) string)
	if got := moodColor(0, 0); got != "hsl(264, 60%, 40%)" {
		t.Errorf("moodColor(0, 0) = %q", got)
	}
	if got := moodColor(1, 1); !strings.HasPrefix(got, "hsl(35,") {
		t.Errorf("moodColor(1, 1) = %q", got)
	}

	add := funcs["add"].(func(int, int) int)
	if add(1, 2) != 3 {
		t.Error("add(1, 2) != 3")
	}
}
