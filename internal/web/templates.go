package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/justestif/go-music-oracle/internal/analysis"
	"github.com/justestif/go-music-oracle/internal/readings"
)

// Templates manages HTML template rendering.
type Templates struct {
	templates map[string]*template.Template
	partials  map[string]*template.Template
	funcs     template.FuncMap
}

// NewTemplates creates a new template manager by loading templates from the given filesystem.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{
		templates: make(map[string]*template.Template),
		partials:  make(map[string]*template.Template),
		funcs:     defaultFuncs(),
	}

	if err := t.load(templatesFS); err != nil {
		return nil, err
	}

	return t, nil
}

// Render renders a page template inside the base layout.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderPartial renders a partial template (without base layout) for htmx swaps.
func (t *Templates) RenderPartial(w io.Writer, partial string, data any) error {
	tmpl, ok := t.partials[partial]
	if !ok {
		return fmt.Errorf("partial %q not found", partial)
	}
	return tmpl.ExecuteTemplate(w, partial, data)
}

// load parses layouts/, partials/ and pages/. Every page is parsed together
// with all layouts and partials; each partial file defines a template named
// after the file.
func (t *Templates) load(templatesFS fs.FS) error {
	layouts, err := fs.Glob(templatesFS, "layouts/*.html")
	if err != nil {
		return fmt.Errorf("finding layouts: %w", err)
	}

	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("finding partials: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("finding pages: %w", err)
	}

	common := append(layouts, partials...)

	for _, page := range pages {
		name := templateName(page)
		files := append([]string{page}, common...)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		t.templates[name] = tmpl
	}

	for _, partial := range partials {
		name := templateName(partial)

		// Partials may reference each other.
		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, partials...)
		if err != nil {
			return fmt.Errorf("parsing partial %s: %w", name, err)
		}
		t.partials[name] = tmpl
	}

	return nil
}

func templateName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".html")
}

// defaultFuncs returns the default template functions.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		// moodColor maps energy to hue (cool indigo to warm orange) and
		// valence to saturation and lightness.
		"moodColor": func(energy, valence float64) string {
			hue := 264 - (energy * 229)
			if hue < 0 {
				hue += 360
			}
			saturation := 60 + (valence * 40)
			lightness := 40 + (valence * 20)
			return fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", hue, saturation, lightness)
		},

		"frequencyColor": analysis.FrequencyColor,
		"percent":        analysis.Percent,

		"formatTime": func(t time.Time) string {
			return t.Format("2 Jan 2006, 15:04")
		},

		"join": strings.Join,

		// add adds two integers (for 1-based indexing in loops)
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	User        *UserData
	Flash       *FlashMessage
	CurrentPath string
}

// UserData contains authenticated user information.
type UserData struct {
	ID   string
	Name string
}

// FlashMessage represents a temporary notification message.
type FlashMessage struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// HomePageData contains data for the landing page.
type HomePageData struct {
	PageData
	Authenticated bool
}

// ProfilePageData contains data for a profile reading page.
type ProfilePageData struct {
	PageData
	Reading *readings.ProfileReading
}

// TrackPageData contains data for a single-track reading page.
type TrackPageData struct {
	PageData
	Reading *readings.TrackReading
}

// SearchResultsData contains data for the search results fragment.
type SearchResultsData struct {
	Query  string
	Tracks []analysis.Track
	Error  string
}
