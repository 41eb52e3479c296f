package render

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sync"
	"time"
)

// TemplateSet holds all parsed page templates.
// Each page is stored as a completely separate template.Template
// to avoid {{define "content"}} block collisions.
type TemplateSet struct {
	pages map[string]*template.Template
	mu    sync.RWMutex
}

// Execute renders the specified page template.
// pageName is the filename like "home.html". This always executes the
// "base" layout, which pulls in the {{define "content"}} and
// {{define "title"}} blocks from the specific page.
func (ts *TemplateSet) Execute(w io.Writer, pageName string, data interface{}) error {
	ts.mu.RLock()
	tmpl, ok := ts.pages[pageName]
	ts.mu.RUnlock()

	if !ok {
		return fmt.Errorf("template %q not found", pageName)
	}

	return tmpl.ExecuteTemplate(w, "base", data)
}

// Has checks if a template exists
func (ts *TemplateSet) Has(pageName string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	_, ok := ts.pages[pageName]
	return ok
}

// Names returns all available template names
func (ts *TemplateSet) Names() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	names := make([]string, 0, len(ts.pages))
	for name := range ts.pages {
		names = append(names, name)
	}
	return names
}

// LoadTemplates parses all HTML templates from the given filesystem.
// Each page is parsed together with the base layout into its own isolated
// template so pages can reuse block names freely.
func LoadTemplates(fsys fs.FS) (*TemplateSet, error) {
	funcMap := template.FuncMap{
		"renderMarkdown": Markdown,
		"formatTime": func(t time.Time) string {
			return t.Local().Format("Jan 2, 2006 15:04")
		},
		"formatDate": func(t time.Time) string {
			return t.Local().Format("Jan 2, 2006")
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	baseFile := "layouts/base.html"

	pageFiles, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}
	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	ts := &TemplateSet{
		pages: make(map[string]*template.Template),
	}

	for _, pageFile := range pageFiles {
		pageName := path.Base(pageFile)

		pageTemplate, err := template.New("base").Funcs(funcMap).ParseFS(fsys, baseFile, pageFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", pageName, err)
		}

		ts.pages[pageName] = pageTemplate
	}

	return ts, nil
}
