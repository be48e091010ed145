// Package postfs implements the post repository on a directory of Markdown
// files, the local checkout of the same posts directory the committer
// writes to on GitHub.
//
// Each file is front-matter plus a Markdown body. The file name (minus
// extension) is the slug. The store never writes: publishing goes through
// the GitHub commit flow, not the local filesystem.
package postfs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/apperror"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/frontmatter"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/model"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/repository"
)

// extensions recognized as post files, in lookup preference order.
var extensions = []string{".md", ".mdx"}

// compile-time check that *Store implements repository.PostRepository
var _ repository.PostRepository = (*Store)(nil)

// Store reads posts from a directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a Store over dir. The directory does not have to exist yet —
// a blog with no posts lists as empty, not as an error.
func New(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// ListMeta returns metadata for every post in the directory, newest first.
//
// A single unreadable or malformed file is skipped with a warning rather
// than taking the whole listing down with it.
func (s *Store) ListMeta(ctx context.Context) ([]model.PostMeta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.PostMeta{}, nil
		}
		return nil, fmt.Errorf("postfs: reading %s: %w", s.dir, err)
	}

	metas := make([]model.PostMeta, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.IsDir() {
			continue
		}
		slug, ok := slugFromFilename(entry.Name())
		if !ok {
			continue
		}

		post, err := s.readFile(filepath.Join(s.dir, entry.Name()), slug)
		if err != nil {
			s.logger.Warn("postfs: skipping unreadable post",
				slog.String("file", entry.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}

		metas = append(metas, model.PostMeta{
			Slug:    post.Slug,
			Title:   post.Title,
			Date:    post.Date,
			Excerpt: post.Excerpt,
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Date.After(metas[j].Date)
	})
	return metas, nil
}

// GetBySlug returns the post stored as {slug}.md (or .mdx).
func (s *Store) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	for _, ext := range extensions {
		path := filepath.Join(s.dir, slug+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return s.readFile(path, slug)
	}
	return nil, apperror.NotFound("post", slug)
}

// readFile loads and parses one post file. Missing front-matter fields get
// display-safe defaults instead of failing the read.
func (s *Store) readFile(path, slug string) (*model.Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("postfs: reading %s: %w", path, err)
	}

	meta, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, err
	}

	if meta.Title == "" {
		meta.Title = "Untitled Post"
	}
	if meta.Date.IsZero() {
		// Fall back to the file's modification time, then to now.
		if info, err := os.Stat(path); err == nil {
			meta.Date = info.ModTime()
		} else {
			meta.Date = time.Now()
		}
	}

	return &model.Post{
		Slug:    slug,
		Title:   meta.Title,
		Date:    meta.Date,
		Excerpt: meta.Excerpt,
		Content: body,
	}, nil
}

func slugFromFilename(name string) (string, bool) {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext), true
		}
	}
	return "", false
}
