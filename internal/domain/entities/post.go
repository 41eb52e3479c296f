package entities

import "time"

// Post represents a blog post. Content is markdown; rendering is the
// concern of whichever front-end displays it.
type Post struct {
	ID        string
	Title     string
	Slug      string
	Content   string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
