package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/auth"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/model"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/repository"
)

const stateCookieName = "oauth_state"

// Authenticator is the slice of the GitHub OAuth flow the auth handler
// needs: build the authorization URL, then exchange the callback code for an
// access token. Implemented by github.Provider.
type Authenticator interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// UserFetcher resolves an access token to the GitHub user that owns it.
// Implemented by github.Client.
type UserFetcher interface {
	FetchUser(ctx context.Context, token string) (*model.User, error)
}

// AuthHandler manages the GitHub OAuth login flow and the session cookie.
type AuthHandler struct {
	provider Authenticator
	github   UserFetcher
	sessions *auth.Manager
	users    repository.UserRepository
	logger   *slog.Logger
}

func NewAuthHandler(provider Authenticator, github UserFetcher, sessions *auth.Manager, users repository.UserRepository, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		github:   github,
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// HandleLogin redirects the browser to GitHub's authorization page.
//
// GET /auth/github/login
//
// The random state value is stored in a short-lived HttpOnly cookie and
// checked again on callback, so a forged callback can't complete the flow.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth login flow.
//
// GET /auth/github/callback?code=xxx&state=yyy
//
// On any failure the user ends up back on the home page with an error query
// parameter and no session cookie: error=github_auth_failed when GitHub
// denied or the code exchange failed, error=github_callback_failed when the
// exchange succeeded but we couldn't resolve or record the user.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state check failed")
		h.failLogin(w, r, "github_auth_failed")
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: authorization denied", slog.String("error", errParam))
		h.failLogin(w, r, "github_auth_failed")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.logger.Warn("auth callback: missing code")
		h.failLogin(w, r, "github_auth_failed")
		return
	}

	token, err := h.provider.ExchangeCode(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: code exchange failed", slog.Any("error", err))
		h.failLogin(w, r, "github_auth_failed")
		return
	}

	user, err := h.github.FetchUser(r.Context(), token)
	if err != nil {
		h.logger.Error("auth callback: fetching user profile failed", slog.Any("error", err))
		h.failLogin(w, r, "github_callback_failed")
		return
	}

	if err := h.users.Upsert(r.Context(), user); err != nil {
		h.logger.Error("auth callback: recording user failed",
			slog.String("login", user.Login),
			slog.Any("error", err))
		h.failLogin(w, r, "github_callback_failed")
		return
	}

	if err := h.sessions.SetCookie(w, *user, token); err != nil {
		h.logger.Error("auth callback: issuing session failed", slog.Any("error", err))
		h.failLogin(w, r, "github_callback_failed")
		return
	}

	h.logger.Info("user authenticated",
		slog.String("id", user.ID),
		slog.String("login", user.Login))

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// failLogin sends the browser back to the home page with an error marker and
// no session cookie.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, "/?error="+reason, http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
//
// POST /auth/logout
//
// POST because logout changes state; the session token itself stays valid
// until its expiry, but without the cookie the browser can't send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, apiResponse{Success: true})
}

// HandleMe returns the authenticated user's profile.
//
// GET /api/me (session required)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Error: "not authenticated"})
		return
	}

	user, err := h.users.GetByID(r.Context(), sess.User.ID)
	if err != nil {
		h.logger.Error("me: user lookup failed",
			slog.String("id", sess.User.ID),
			slog.Any("error", err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
