package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/auth"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/model"
)

// maxDraftBody caps the request body for post submissions. Drafts are
// Markdown text; anything past this is either abuse or a mistake.
const maxDraftBody = 2 << 20

// PostSubmitter publishes a validated draft on behalf of a session.
// Implemented by service.PostService.
type PostSubmitter interface {
	Submit(ctx context.Context, sess *auth.Session, draft model.PostDraft) error
}

// PostHandler serves the post submission API.
type PostHandler struct {
	posts  PostSubmitter
	logger *slog.Logger
}

func NewPostHandler(posts PostSubmitter, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// HandleSubmit accepts a new post and commits it to the content repository.
//
// POST /api/posts (session required)
// Body: {"title": "...", "slug": "...", "content": "..."}
//
// Responds {"success": true} once the commit has landed. Failures use the
// standard error shape with the status mapped from the error kind, so a
// duplicate resubmission after a lost response returns success again rather
// than an error.
func (h *PostHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Error: "not authenticated"})
		return
	}

	var draft model.PostDraft
	r.Body = http.MaxBytesReader(w, r.Body, maxDraftBody)
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Error: "invalid request body"})
		return
	}

	if err := h.posts.Submit(r.Context(), sess, draft); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, apiResponse{Success: true})
}
