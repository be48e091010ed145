package frontmatter

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeParse_RoundTrip(t *testing.T) {
	meta := Meta{
		Title: "Hello World",
		Date:  time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
		Slug:  "hello-world",
	}

	encoded, err := Encode(meta, "Hi there")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, body, err := Parse([]byte(encoded))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got.Title != meta.Title {
		t.Errorf("Title = %q, want %q", got.Title, meta.Title)
	}
	if got.Slug != meta.Slug {
		t.Errorf("Slug = %q, want %q", got.Slug, meta.Slug)
	}
	if !got.Date.Equal(meta.Date) {
		t.Errorf("Date = %v, want %v", got.Date, meta.Date)
	}
	if body != "Hi there" {
		t.Errorf("body = %q, want %q", body, "Hi there")
	}
}

func TestEncodeParse_TitleWithQuotes(t *testing.T) {
	// Titles containing YAML-significant characters must survive the trip.
	meta := Meta{
		Title: `A "quoted" title: with punctuation`,
		Date:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Slug:  "quoted-title",
	}

	encoded, err := Encode(meta, "body")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, _, err := Parse([]byte(encoded))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Title != meta.Title {
		t.Errorf("Title = %q, want %q", got.Title, meta.Title)
	}
}

func TestEncode_Layout(t *testing.T) {
	meta := Meta{
		Title: "Hello",
		Date:  time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
		Slug:  "hello",
	}

	encoded, err := Encode(meta, "# Heading\n\ntext")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if !strings.HasPrefix(encoded, "---\n") {
		t.Errorf("encoded file should open with a delimiter line, got %q", encoded)
	}
	if !strings.Contains(encoded, "\n---\n\n# Heading") {
		t.Errorf("encoded file should separate header and body with a blank line, got %q", encoded)
	}
}

func TestParse_MultilineBody(t *testing.T) {
	encoded, err := Encode(Meta{Title: "t", Date: time.Now().UTC(), Slug: "t"}, "line one\n\nline three\n")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	_, body, err := Parse([]byte(encoded))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if body != "line one\n\nline three\n" {
		t.Errorf("body = %q, want blank lines preserved", body)
	}
}

func TestParse_NoFrontMatter(t *testing.T) {
	meta, body, err := Parse([]byte("just markdown, no header"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if meta.Title != "" || meta.Slug != "" {
		t.Errorf("expected zero meta, got %+v", meta)
	}
	if body != "just markdown, no header" {
		t.Errorf("body = %q, want full input", body)
	}
}

func TestParse_UnterminatedHeader(t *testing.T) {
	_, _, err := Parse([]byte("---\ntitle: broken\nno closing delimiter"))
	if err == nil {
		t.Fatal("Parse() should error on an unterminated header block")
	}
}
