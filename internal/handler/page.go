package handler

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/apperror"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/auth"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/cache"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/markdown"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/model"
)

// homeRecentPosts is how many posts the home page shows.
const homeRecentPosts = 5

// PostReader is the read side of the post service, used by the public pages.
type PostReader interface {
	List(ctx context.Context) ([]model.PostMeta, error)
	Get(ctx context.Context, slug string) (*model.Post, error)
}

// PageHandler renders the server-side HTML pages. Public pages (home, post
// index, individual posts) are cached whole per URL path for anonymous
// visitors; admin pages are always rendered fresh.
type PageHandler struct {
	posts    PostReader
	renderer *markdown.Renderer
	cache    cache.PageCache
	tmpl     *template.Template
	logger   *slog.Logger
}

func NewPageHandler(templateDir string, posts PostReader, renderer *markdown.Renderer, pageCache cache.PageCache, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseGlob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		posts:    posts,
		renderer: renderer,
		cache:    pageCache,
		tmpl:     tmpl,
		logger:   logger,
	}, nil
}

// pageView carries the fields every page template can use.
type pageView struct {
	User  *model.User // nil for anonymous visitors
	Error string      // login error marker from the ?error query parameter
}

type homeView struct {
	pageView
	Recent []model.PostMeta
}

type postIndexView struct {
	pageView
	Posts []model.PostMeta
}

type postView struct {
	pageView
	Post *model.Post
	Body template.HTML
}

func (h *PageHandler) newPageView(r *http.Request) pageView {
	view := pageView{Error: r.URL.Query().Get("error")}
	if sess, ok := auth.SessionFromContext(r.Context()); ok {
		user := sess.User
		view.User = &user
	}
	return view
}

// HandleHome renders the landing page with the most recent posts.
//
// GET /
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if h.serveCached(w, r) {
		return
	}

	metas, err := h.posts.List(r.Context())
	if err != nil {
		h.renderFailure(w, "listing posts", err)
		return
	}
	if len(metas) > homeRecentPosts {
		metas = metas[:homeRecentPosts]
	}

	h.render(w, r, "home.html", homeView{pageView: h.newPageView(r), Recent: metas})
}

// HandlePostIndex renders the full post listing.
//
// GET /posts
func (h *PageHandler) HandlePostIndex(w http.ResponseWriter, r *http.Request) {
	if h.serveCached(w, r) {
		return
	}

	metas, err := h.posts.List(r.Context())
	if err != nil {
		h.renderFailure(w, "listing posts", err)
		return
	}

	h.render(w, r, "posts.html", postIndexView{pageView: h.newPageView(r), Posts: metas})
}

// HandlePost renders a single post, with its Markdown body converted to HTML.
//
// GET /posts/{slug}
func (h *PageHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if h.serveCached(w, r) {
		return
	}

	slug := chi.URLParam(r, "slug")
	post, err := h.posts.Get(r.Context(), slug)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.renderFailure(w, "loading post", err)
		return
	}

	body, err := h.renderer.Render(post.Content)
	if err != nil {
		h.renderFailure(w, "rendering post body", err)
		return
	}

	h.render(w, r, "post.html", postView{pageView: h.newPageView(r), Post: post, Body: body})
}

// HandleAdmin renders the admin dashboard.
//
// GET /admin (session required)
func (h *PageHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin.html", h.newPageView(r))
}

// HandleNewPost renders the post composer.
//
// GET /admin/new-post (session required)
func (h *PageHandler) HandleNewPost(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "new_post.html", h.newPageView(r))
}

// serveCached writes the cached copy of the requested page if there is one.
// Only bare anonymous requests are served from (or later stored in) the
// cache: a session or a query string makes the page per-request.
func (h *PageHandler) serveCached(w http.ResponseWriter, r *http.Request) bool {
	if !cacheableRequest(r) {
		return false
	}
	page, ok := h.cache.Get(r.Context(), r.URL.Path)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, page)
	return true
}

func cacheableRequest(r *http.Request) bool {
	if r.URL.RawQuery != "" {
		return false
	}
	_, hasSession := auth.SessionFromContext(r.Context())
	return !hasSession
}

// render executes the named template into a buffer first, so a template
// error turns into a clean 500 instead of a half-written page.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("template execution failed",
			slog.String("template", name),
			slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if cacheableRequest(r) {
		if err := h.cache.Set(r.Context(), r.URL.Path, buf.String()); err != nil {
			h.logger.Warn("page cache store failed",
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("writing page response failed", slog.Any("error", err))
	}
}

func (h *PageHandler) renderFailure(w http.ResponseWriter, operation string, err error) {
	h.logger.Error("page render failed",
		slog.String("operation", operation),
		slog.Any("error", err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
