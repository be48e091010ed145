// Package markdown renders post bodies to HTML for display.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts Markdown to HTML. Posts are written in GitHub-flavored
// Markdown (they live in a GitHub repo, after all), so the GFM extension set
// is enabled. Raw HTML inside a post stays escaped — goldmark's default —
// since post authors are authenticated but their content is served to
// anonymous readers.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer. The goldmark instance is built once and
// reused; conversion itself is safe for concurrent use.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Render converts a Markdown body to HTML.
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: converting: %w", err)
	}
	return template.HTML(buf.String()), nil
}
