package auth

import (
	"context"
	"errors"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
// Only this package can create a key of this type, so no other package can
// read or shadow the session value in a request context.
type contextKey string

const sessionKey contextKey = "session"

// RequireSession enforces authentication on API routes.
//
// It reads the session cookie, verifies it, and stores the Session in the
// request context. A missing session returns 401; a corrupt or expired one
// is additionally cleared so the browser stops presenting it.
func RequireSession(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.FromRequest(r)
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					m.ClearCookie(w)
				}
				http.Error(w, `{"success":false,"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
		})
	}
}

// RequirePage is RequireSession for HTML pages: instead of a JSON 401 it
// redirects the browser into the login flow.
func RequirePage(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.FromRequest(r)
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					m.ClearCookie(w)
				}
				http.Redirect(w, r, "/auth/github/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
		})
	}
}

// OptionalSession extracts the session if a valid cookie is present but never
// blocks the request. Public pages use it so a logged-in visitor still sees
// their profile in the header. An invalid cookie is cleared and the request
// continues anonymously.
func OptionalSession(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.FromRequest(r)
			switch {
			case err == nil:
				r = r.WithContext(withSession(r.Context(), sess))
			case !errors.Is(err, http.ErrNoCookie):
				m.ClearCookie(w)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext retrieves the verified session from the request context.
// Returns (nil, false) on anonymous requests.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*Session)
	return sess, ok && sess != nil
}
