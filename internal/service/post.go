// Package service holds the application logic between the HTTP handlers and
// the repositories / GitHub client.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/apperror"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/auth"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/cache"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/frontmatter"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/model"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/repository"
)

// Committer pushes a file to the configured GitHub repository, creating or
// updating it as needed. Implemented by github.Client.
type Committer interface {
	CommitFile(ctx context.Context, token, path, content, message string) error
}

const (
	maxTitleLength   = 200
	maxContentLength = 1 << 20
)

// slugPattern is the canonical slug shape: lowercase alphanumeric runs
// separated by single hyphens, no leading or trailing hyphen.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// PostService handles post submission and the public read path.
type PostService struct {
	committer Committer
	posts     repository.PostRepository
	cache     cache.PageCache
	postsPath string
	logger    *slog.Logger

	now func() time.Time
}

// NewPostService creates a PostService. postsPath is the directory inside the
// GitHub repository that new posts are committed under, e.g. "posts".
func NewPostService(committer Committer, posts repository.PostRepository, pageCache cache.PageCache, postsPath string, logger *slog.Logger) *PostService {
	return &PostService{
		committer: committer,
		posts:     posts,
		cache:     pageCache,
		postsPath: strings.Trim(postsPath, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

// Submit validates a draft and commits it to the GitHub repository as a
// Markdown file with a front-matter header. Validation and the session check
// both run before any network traffic, so a bad draft never costs an API call.
func (s *PostService) Submit(ctx context.Context, sess *auth.Session, draft model.PostDraft) error {
	if err := validateDraft(draft); err != nil {
		return err
	}
	if sess == nil || sess.User.ID == "" {
		return apperror.Unauthenticated("not authenticated")
	}
	if sess.AccessToken == "" {
		return apperror.Unauthenticated("session has no GitHub access token")
	}

	title := strings.TrimSpace(draft.Title)
	content, err := frontmatter.Encode(frontmatter.Meta{
		Title: title,
		Date:  s.now().UTC(),
		Slug:  draft.Slug,
	}, draft.Content)
	if err != nil {
		return fmt.Errorf("encoding post front matter: %w", err)
	}

	path := s.postsPath + "/" + draft.Slug + ".md"
	message := fmt.Sprintf("feat: add post '%s'", title)

	if err := s.committer.CommitFile(ctx, sess.AccessToken, path, content, message); err != nil {
		s.logger.Error("post commit failed",
			slog.String("slug", draft.Slug),
			slog.String("user", sess.User.Login),
			slog.Any("error", err))
		return err
	}

	s.logger.Info("post committed",
		slog.String("slug", draft.Slug),
		slog.String("path", path),
		slog.String("user", sess.User.Login))

	s.invalidatePages(ctx, draft.Slug)
	return nil
}

// invalidatePages drops the cached pages a new post makes stale. The commit
// has already succeeded at this point, so cache failures are logged rather
// than surfaced: the pages will repopulate on their natural TTL.
func (s *PostService) invalidatePages(ctx context.Context, slug string) {
	keys := []string{"/", "/posts", "/posts/" + slug}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn("page cache invalidation failed",
			slog.String("slug", slug),
			slog.Any("error", err))
	}
}

// List returns metadata for all published posts, newest first.
func (s *PostService) List(ctx context.Context) ([]model.PostMeta, error) {
	return s.posts.ListMeta(ctx)
}

// Get returns a single published post by slug.
func (s *PostService) Get(ctx context.Context, slug string) (*model.Post, error) {
	if !slugPattern.MatchString(slug) {
		return nil, apperror.NotFound("post", slug)
	}
	return s.posts.GetBySlug(ctx, slug)
}

func validateDraft(draft model.PostDraft) error {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return apperror.ValidationFailed("title", "title must not be empty")
	}
	if len(title) > maxTitleLength {
		return apperror.ValidationFailed("title", fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if draft.Slug == "" {
		return apperror.ValidationFailed("slug", "slug must not be empty")
	}
	if !slugPattern.MatchString(draft.Slug) {
		return apperror.ValidationFailed("slug", "slug must be lowercase letters, digits and single hyphens")
	}
	if strings.TrimSpace(draft.Content) == "" {
		return apperror.ValidationFailed("content", "content must not be empty")
	}
	if len(draft.Content) > maxContentLength {
		return apperror.ValidationFailed("content", "content is too large")
	}
	return nil
}
