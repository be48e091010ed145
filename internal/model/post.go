package model

import "time"

// PostMeta is the listing view of a post: everything needed to render an
// index entry without loading the Markdown body.
type PostMeta struct {
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Excerpt string    `json:"excerpt,omitempty"`
}

// Post is a fully loaded post: metadata plus the raw Markdown body.
type Post struct {
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Excerpt string    `json:"excerpt,omitempty"`
	Content string    `json:"content"` // raw Markdown, rendered to HTML at display time
}

// PostDraft is a user-submitted post before it has been committed anywhere.
// The slug doubles as the file name in the target repository, so it is
// restricted to lowercase words separated by single hyphens.
type PostDraft struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
}
