package render

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contains    []string // Strings that should appear in output
		notContains []string // Strings that should NOT appear in output
	}{
		{
			name:     "heading",
			input:    "# Hello World",
			contains: []string{"<h1>", "Hello World", "</h1>"},
		},
		{
			name:     "bold text",
			input:    "This is **bold** text",
			contains: []string{"<strong>", "bold", "</strong>"},
		},
		{
			name:     "unordered list",
			input:    "- Item 1\n- Item 2",
			contains: []string{"<ul>", "<li>", "Item 1", "Item 2", "</li>", "</ul>"},
		},
		{
			name:     "code block",
			input:    "```\nfunc main() {}\n```",
			contains: []string{"<pre>", "<code>", "func main()", "</code>", "</pre>"},
		},
		{
			name:     "link",
			input:    "[Example](https://example.com)",
			contains: []string{"<a", "href=\"https://example.com\"", "Example", "</a>"},
		},
		{
			name:        "script tag is stripped",
			input:       "Hello <script>alert('xss')</script> world",
			contains:    []string{"Hello", "world"},
			notContains: []string{"<script>", "alert"},
		},
		{
			name:        "onclick attribute is stripped",
			input:       `<a href="https://example.com" onclick="evil()">link</a>`,
			contains:    []string{"<a", "link"},
			notContains: []string{"onclick", "evil"},
		},
		{
			name:        "iframe is stripped",
			input:       `<iframe src="https://evil.example"></iframe>ok`,
			contains:    []string{"ok"},
			notContains: []string{"<iframe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Markdown(tt.input))

			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, got)
				}
			}
			for _, forbidden := range tt.notContains {
				if strings.Contains(got, forbidden) {
					t.Errorf("expected output to not contain %q, got:\n%s", forbidden, got)
				}
			}
		})
	}
}
