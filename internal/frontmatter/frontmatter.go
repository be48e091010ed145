// Package frontmatter encodes and parses the metadata header block carried at
// the top of every committed post file.
//
// FILE FORMAT:
// A post file is a front-matter block delimited by "---" lines, followed by a
// blank line and the raw Markdown body:
//
//	---
//	title: Hello World
//	date: 2025-09-01T10:00:00Z
//	slug: hello-world
//	---
//
//	Hi there
//
// The header is YAML (key: value pairs), so we lean on gopkg.in/yaml.v3 for
// quoting, escaping, and timestamp handling instead of hand-rolling a parser.
// Both the committer (Encode, when writing to GitHub) and the filesystem post
// store (Parse, when reading the local checkout) go through this package, so a
// committed file always round-trips back to the title and slug it was built
// from.
package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Meta is the front-matter header of a post file.
type Meta struct {
	Title   string    `yaml:"title"`
	Date    time.Time `yaml:"date"`
	Slug    string    `yaml:"slug,omitempty"`
	Excerpt string    `yaml:"excerpt,omitempty"`
}

// Encode renders a complete post file: front-matter block, blank separator
// line, then the body verbatim.
func Encode(meta Meta, body string) (string, error) {
	head, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("frontmatter: encoding header: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.Write(head)
	b.WriteString(delimiter + "\n\n")
	b.WriteString(body)
	return b.String(), nil
}

// Parse splits a post file into its header and body.
//
// A file with no front-matter block is not an error: it parses to a zero Meta
// and the whole input as body, and the caller decides what defaults apply.
// An opened but unterminated block is an error — the file is malformed and
// half of it would otherwise be swallowed as "header".
func Parse(raw []byte) (Meta, string, error) {
	s := string(raw)
	if !strings.HasPrefix(s, delimiter+"\n") {
		return Meta{}, s, nil
	}

	lines := strings.Split(s[len(delimiter)+1:], "\n")
	end := -1
	for i, line := range lines {
		if strings.TrimRight(line, " \t") == delimiter {
			end = i
			break
		}
	}
	if end < 0 {
		return Meta{}, "", fmt.Errorf("frontmatter: unterminated header block")
	}

	var meta Meta
	head := strings.Join(lines[:end], "\n")
	if err := yaml.Unmarshal([]byte(head), &meta); err != nil {
		return Meta{}, "", fmt.Errorf("frontmatter: parsing header: %w", err)
	}

	body := strings.Join(lines[end+1:], "\n")
	// Drop the single blank separator line Encode writes after the header.
	body = strings.TrimPrefix(body, "\n")
	return meta, body, nil
}
