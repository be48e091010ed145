// Package auth manages browser sessions for the admin area.
//
// SESSION MODEL:
// A session is a signed JWT stored in an HttpOnly cookie. The payload carries
// the GitHub user profile and the user's GitHub access token, so the server
// keeps no session state at all — every request brings its own credentials.
// The signature (HMAC-SHA256) ensures nobody can tamper with the payload
// without the secret key, and the HttpOnly flag keeps the token — which
// includes a repo-scoped GitHub credential — out of reach of page scripts.
//
// Sessions live for 7 days. Expiry is checked on every read; an expired or
// corrupt cookie is treated identically to "no session" and actively cleared
// so the browser stops sending it.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/model"
)

const (
	// SessionCookie is the name of the session cookie.
	SessionCookie = "app_session"

	sessionTTL = 7 * 24 * time.Hour
	issuer     = "sample-blog"
)

// Session is the decoded content of a valid session cookie.
type Session struct {
	User        model.User
	AccessToken string // the user's GitHub access token, scoped to this session
}

// sessionClaims is the JWT payload. It embeds jwt.RegisteredClaims for the
// standard expiry/issuer handling and adds our session data.
type sessionClaims struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"accessToken"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens and manages the cookie that
// carries them.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a Manager with the given signing secret.
// The secret should be at least 32 bytes of random data in production.
func NewManager(secret string) (*Manager, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &Manager{secret: []byte(secret), ttl: sessionTTL}, nil
}

// Issue creates and signs a session token for the given user and GitHub
// access token.
func (m *Manager) Issue(user model.User, accessToken string) (string, error) {
	now := time.Now()

	claims := sessionClaims{
		User:        user,
		AccessToken: accessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token string.
//
// Validation checks (performed by the jwt library): signature, expiry,
// issuer, and signing algorithm. Pinning the algorithm with WithValidMethods
// prevents algorithm-confusion attacks.
func (m *Manager) Verify(tokenStr string) (*Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: session expired")
		}
		return nil, fmt.Errorf("auth: invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid session claims")
	}
	if claims.User.ID == "" || claims.AccessToken == "" {
		return nil, fmt.Errorf("auth: session missing user or access token")
	}

	return &Session{User: claims.User, AccessToken: claims.AccessToken}, nil
}

// FromRequest reads and verifies the session cookie on a request.
//
// Returns http.ErrNoCookie when the cookie is absent, a verification error
// when it is present but unusable (corrupt, forged, or expired), and the
// Session otherwise. Callers that hold the ResponseWriter should clear the
// cookie on a verification error — see the middleware in this package.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, err
	}
	return m.Verify(cookie.Value)
}

// SetCookie issues a session token for the user and installs it as the
// session cookie on the response.
func (m *Manager) SetCookie(w http.ResponseWriter, user model.User, accessToken string) error {
	token, err := m.Issue(user, accessToken)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable when serving over HTTPS
	})
	return nil
}

// ClearCookie tells the browser to delete the session cookie immediately.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
