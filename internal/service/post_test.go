package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/apperror"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/auth"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/cache"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/frontmatter"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/model"
)

type commitCall struct {
	token   string
	path    string
	content string
	message string
}

type mockCommitter struct {
	calls []commitCall
	err   error
}

func (m *mockCommitter) CommitFile(_ context.Context, token, path, content, message string) error {
	m.calls = append(m.calls, commitCall{token: token, path: path, content: content, message: message})
	return m.err
}

type mockPosts struct {
	metas []model.PostMeta
	post  *model.Post
	err   error
}

func (m *mockPosts) ListMeta(context.Context) ([]model.PostMeta, error) {
	return m.metas, m.err
}

func (m *mockPosts) GetBySlug(context.Context, string) (*model.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.post, nil
}

func testSession() *auth.Session {
	return &auth.Session{
		User:        model.User{ID: "583231", Login: "octocat"},
		AccessToken: "gho_testtoken",
	}
}

func validDraft() model.PostDraft {
	return model.PostDraft{
		Title:   "Hello World",
		Slug:    "hello-world",
		Content: "This is the body.",
	}
}

func newTestService(committer *mockCommitter, posts *mockPosts, pageCache cache.PageCache) *PostService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewPostService(committer, posts, pageCache, "posts", logger)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestSubmit_CommitsEncodedPost(t *testing.T) {
	committer := &mockCommitter{}
	svc := newTestService(committer, &mockPosts{}, cache.NewMemory(0))

	err := svc.Submit(context.Background(), testSession(), validDraft())
	require.NoError(t, err)
	require.Len(t, committer.calls, 1)

	call := committer.calls[0]
	assert.Equal(t, "gho_testtoken", call.token)
	assert.Equal(t, "posts/hello-world.md", call.path)
	assert.Equal(t, "feat: add post 'Hello World'", call.message)

	meta, body, err := frontmatter.Parse([]byte(call.content))
	require.NoError(t, err)
	assert.Equal(t, "Hello World", meta.Title)
	assert.Equal(t, "hello-world", meta.Slug)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), meta.Date)
	assert.Equal(t, "This is the body.", body)
}

func TestSubmit_TrimsTitle(t *testing.T) {
	committer := &mockCommitter{}
	svc := newTestService(committer, &mockPosts{}, cache.NewMemory(0))

	draft := validDraft()
	draft.Title = "  Hello World  "
	require.NoError(t, svc.Submit(context.Background(), testSession(), draft))
	require.Len(t, committer.calls, 1)
	assert.Equal(t, "feat: add post 'Hello World'", committer.calls[0].message)
}

func TestSubmit_ValidationRejectsBeforeCommit(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.PostDraft)
	}{
		{"empty title", func(d *model.PostDraft) { d.Title = "   " }},
		{"oversized title", func(d *model.PostDraft) { d.Title = strings.Repeat("x", maxTitleLength+1) }},
		{"empty slug", func(d *model.PostDraft) { d.Slug = "" }},
		{"uppercase slug", func(d *model.PostDraft) { d.Slug = "Hello-World" }},
		{"leading hyphen", func(d *model.PostDraft) { d.Slug = "-hello" }},
		{"double hyphen", func(d *model.PostDraft) { d.Slug = "hello--world" }},
		{"slug with spaces", func(d *model.PostDraft) { d.Slug = "hello world" }},
		{"empty content", func(d *model.PostDraft) { d.Content = " \n " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			committer := &mockCommitter{}
			svc := newTestService(committer, &mockPosts{}, cache.NewMemory(0))

			draft := validDraft()
			tt.mutate(&draft)

			err := svc.Submit(context.Background(), testSession(), draft)
			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Empty(t, committer.calls, "no commit should be attempted for an invalid draft")
		})
	}
}

func TestSubmit_RequiresSession(t *testing.T) {
	committer := &mockCommitter{}
	svc := newTestService(committer, &mockPosts{}, cache.NewMemory(0))

	err := svc.Submit(context.Background(), nil, validDraft())
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	assert.Empty(t, committer.calls)
}

func TestSubmit_RequiresAccessToken(t *testing.T) {
	committer := &mockCommitter{}
	svc := newTestService(committer, &mockPosts{}, cache.NewMemory(0))

	sess := testSession()
	sess.AccessToken = ""
	err := svc.Submit(context.Background(), sess, validDraft())
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	assert.Empty(t, committer.calls)
}

func TestSubmit_PropagatesCommitError(t *testing.T) {
	committer := &mockCommitter{err: apperror.Conflict("posts/hello-world.md")}
	svc := newTestService(committer, &mockPosts{}, cache.NewMemory(0))

	err := svc.Submit(context.Background(), testSession(), validDraft())
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestSubmit_InvalidatesCachedPages(t *testing.T) {
	ctx := context.Background()
	pageCache := cache.NewMemory(0)
	require.NoError(t, pageCache.Set(ctx, "/", "home"))
	require.NoError(t, pageCache.Set(ctx, "/posts", "index"))
	require.NoError(t, pageCache.Set(ctx, "/posts/hello-world", "stale"))
	require.NoError(t, pageCache.Set(ctx, "/posts/other", "keep"))

	svc := newTestService(&mockCommitter{}, &mockPosts{}, pageCache)
	require.NoError(t, svc.Submit(ctx, testSession(), validDraft()))

	for _, key := range []string{"/", "/posts", "/posts/hello-world"} {
		_, ok := pageCache.Get(ctx, key)
		assert.False(t, ok, "expected %q to be invalidated", key)
	}
	got, ok := pageCache.Get(ctx, "/posts/other")
	assert.True(t, ok)
	assert.Equal(t, "keep", got)
}

func TestSubmit_KeepsCacheOnCommitFailure(t *testing.T) {
	ctx := context.Background()
	pageCache := cache.NewMemory(0)
	require.NoError(t, pageCache.Set(ctx, "/posts", "index"))

	committer := &mockCommitter{err: errors.New("network down")}
	svc := newTestService(committer, &mockPosts{}, pageCache)

	require.Error(t, svc.Submit(ctx, testSession(), validDraft()))
	got, ok := pageCache.Get(ctx, "/posts")
	assert.True(t, ok, "cache should be untouched when the commit fails")
	assert.Equal(t, "index", got)
}

func TestList_DelegatesToRepository(t *testing.T) {
	metas := []model.PostMeta{{Slug: "a", Title: "A"}, {Slug: "b", Title: "B"}}
	svc := newTestService(&mockCommitter{}, &mockPosts{metas: metas}, cache.NewMemory(0))

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, metas, got)
}

func TestGet_RejectsMalformedSlug(t *testing.T) {
	svc := newTestService(&mockCommitter{}, &mockPosts{post: &model.Post{Slug: "ok"}}, cache.NewMemory(0))

	_, err := svc.Get(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGet_ReturnsPost(t *testing.T) {
	post := &model.Post{Slug: "hello-world", Title: "Hello World", Content: "body"}
	svc := newTestService(&mockCommitter{}, &mockPosts{post: post}, cache.NewMemory(0))

	got, err := svc.Get(context.Background(), "hello-world")
	require.NoError(t, err)
	assert.Equal(t, post, got)
}
