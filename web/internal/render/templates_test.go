package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ZzaizZ/goblog/internal/client"
	"github.com/ZzaizZ/goblog/web/templates"
)

func TestLoadTemplates(t *testing.T) {
	ts, err := LoadTemplates(templates.FS)
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}

	requiredTemplates := []string{
		"home.html",
		"post.html",
		"edit.html",
		"login.html",
		"register.html",
	}

	for _, required := range requiredTemplates {
		if !ts.Has(required) {
			t.Errorf("Expected template %q to be loaded, but it wasn't found", required)
		}
	}
}

func TestExecute_UnknownTemplate(t *testing.T) {
	ts, err := LoadTemplates(templates.FS)
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}

	var buf bytes.Buffer
	if err := ts.Execute(&buf, "missing.html", nil); err == nil {
		t.Error("Expected error for unknown template, got nil")
	}
}

func TestExecute_PostPage(t *testing.T) {
	ts, err := LoadTemplates(templates.FS)
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}

	now := time.Now()
	data := map[string]interface{}{
		"LoggedIn": true,
		"Username": "alice",
		"UserID":   "user-1",
		"IsAuthor": true,
		"Post": &client.Post{
			ID:        "post-1",
			Title:     "Hello World",
			Content:   "# Heading\n\nSome **bold** text.",
			AuthorID:  "user-1",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	var buf bytes.Buffer
	if err := ts.Execute(&buf, "post.html", data); err != nil {
		t.Fatalf("Failed to render post page: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Hello World", "<h1>Heading</h1>", "<strong>bold</strong>", "/posts/post-1/edit"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected rendered page to contain %q", want)
		}
	}
}

func TestExecute_HomePagination(t *testing.T) {
	ts, err := LoadTemplates(templates.FS)
	if err != nil {
		t.Fatalf("Failed to load templates: %v", err)
	}

	data := map[string]interface{}{
		"LoggedIn": false,
		"Posts": []*client.Post{
			{ID: "p1", Title: "First", CreatedAt: time.Now()},
		},
		"Page":    2,
		"HasNext": true,
	}

	var buf bytes.Buffer
	if err := ts.Execute(&buf, "home.html", data); err != nil {
		t.Fatalf("Failed to render home page: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "/?page=1") {
		t.Errorf("expected newer page link, got:\n%s", out)
	}
	if !strings.Contains(out, "/?page=3") {
		t.Errorf("expected older page link, got:\n%s", out)
	}
}
