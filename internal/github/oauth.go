package github

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/apperror"
)

// Provider wraps golang.org/x/oauth2 for the GitHub Authorization Code flow.
//
// OAUTH 2.0 AUTHORIZATION CODE FLOW:
// 1. Our server redirects the user to GitHub's authorization endpoint,
//    with our ClientID and the requested scopes.
// 2. The user approves (or denies) the authorization request on GitHub.
// 3. GitHub redirects back to the CallbackURL with a short-lived "code".
// 4. Our server exchanges the code for an access token (server-to-server call).
//
// The exchange happens server-to-server using the ClientSecret, so the access
// token never touches the browser. The token itself then lives only inside the
// encrypted session cookie (see internal/auth).
type Provider struct {
	config *oauth2.Config
}

// NewProvider creates a Provider with the given OAuth app credentials.
//
// callbackURL must match the "Authorization callback URL" configured for the
// OAuth app exactly.
//
// Scopes we request:
//   - "repo"      — needed to commit post files to the target repository
//   - "read:user" — access to the user's public profile (id, login, avatar)
func NewProvider(clientID, clientSecret, callbackURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, apperror.Configuration("GitHub OAuth client id or secret is not configured")
	}
	return &Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"repo", "read:user"},
			Endpoint:     oauthgithub.Endpoint,
		},
	}, nil
}

// AuthURL returns the URL to redirect the user to for authorization.
//
// The state is a random nonce the caller stores in a cookie before
// redirecting; the callback handler verifies the returned state matches.
// This prevents CSRF attacks completing an OAuth flow the user never started.
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// ExchangeCode trades an authorization code for an access token.
//
// One outbound call, one attempt — transient failures propagate to the
// caller, which surfaces a generic login failure. An error body from the
// provider and a 2xx response missing the access_token both count as
// exchange failures; the oauth2 package surfaces the former as an error,
// we catch the latter here.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (string, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", apperror.Remote("token exchange", err)
	}
	if tok.AccessToken == "" {
		return "", apperror.Remote("token exchange", errors.New("response missing access_token"))
	}
	return tok.AccessToken, nil
}
