// Package github talks to the GitHub REST API: resolving the authenticated
// user and committing post files through the contents endpoint.
//
// The content committer is deliberately a two-phase operation:
//
//	1. GET  /repos/{owner}/{repo}/contents/{path}  → current blob SHA, or 404
//	2. PUT  /repos/{owner}/{repo}/contents/{path}  → create or update commit
//
// The SHA from step 1 is GitHub's optimistic-concurrency token. Sending it
// back in step 2 means "replace exactly this version"; omitting it means
// "create a new file". If the file changed between the two steps, GitHub
// rejects the PUT and we surface that as a conflict instead of overwriting
// someone else's edit. The two steps are not atomic — the race window is
// real but narrow, and resolving it (re-read, recompute, resubmit) is the
// caller's decision, never an automatic retry.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/apperror"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/model"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 15 * time.Second

	acceptHeader     = "application/vnd.github+json"
	apiVersionHeader = "2022-11-28"
)

// Repo identifies the target repository. Sourced from configuration,
// immutable for the process lifetime.
type Repo struct {
	Owner string
	Name  string
}

// Client is an authenticated-per-call GitHub REST client. It holds no token
// itself — every request carries the token of the session that triggered it.
type Client struct {
	repo    Repo
	baseURL string // overridable in tests
	httpc   *http.Client
	timeout time.Duration // per-request deadline
	logger  *slog.Logger
}

// NewClient creates a Client for the given repository.
func NewClient(repo Repo, logger *slog.Logger) *Client {
	return &Client{
		repo:    repo,
		baseURL: defaultBaseURL,
		httpc:   http.DefaultClient,
		timeout: defaultTimeout,
		logger:  logger,
	}
}

// githubUser is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal the fields we need.
type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// FetchUser resolves the identity behind an access token via GET /user.
//
// The numeric GitHub id is normalized to a string here, at the edge, so the
// rest of the system never handles it as a number.
func (c *Client) FetchUser(ctx context.Context, token string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/user", token, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, apperror.Remote("profile fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.RemoteStatus("profile fetch", resp.StatusCode)
	}

	var u githubUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, apperror.Remote("profile fetch", err)
	}
	if u.ID == 0 || u.Login == "" {
		return nil, apperror.Remote("profile fetch", errors.New("response missing id or login"))
	}

	return &model.User{
		ID:        strconv.FormatInt(u.ID, 10),
		Login:     u.Login,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}, nil
}

// contentMeta is the part of the contents GET response we read.
type contentMeta struct {
	SHA string `json:"sha"`
}

// putContentRequest is the body of the contents PUT call.
// An empty SHA is omitted entirely: its absence signals "create new file",
// its presence signals "replace this exact version".
type putContentRequest struct {
	Message string `json:"message"`
	Content string `json:"content"` // base64-encoded
	SHA     string `json:"sha,omitempty"`
}

// putContentResponse is the part of a successful PUT response we log.
type putContentResponse struct {
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// CommitFile creates or updates a single file at path with the given content
// and commit message, authenticated by token.
//
// Failure is all-or-nothing: either the file holds the new content at a new
// commit, or nothing changed. A stale-SHA rejection (409/422) comes back as
// apperror.ErrConflict so the caller can tell "someone edited concurrently"
// apart from "GitHub is down". The PUT is never retried — once a write may
// have landed, a blind retry is not idempotent.
func (c *Client) CommitFile(ctx context.Context, token, path, content, message string) error {
	sha, err := c.fileSHA(ctx, token, path)
	if err != nil {
		// A lookup failure other than 404 means we cannot safely tell
		// create from update, so we abort before attempting the write.
		return err
	}

	payload := putContentRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		SHA:     sha,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("github: encoding commit request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPut, c.contentsURL(path), token, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return apperror.Remote("commit", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		c.logger.Warn("github: commit rejected, stale sha",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return apperror.Conflict(path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("github: commit failed",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)),
		)
		return apperror.RemoteStatus("commit", resp.StatusCode)
	}

	// The write landed. A response body that fails to parse is a logging
	// nuisance, not an operation failure.
	var result putContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("github: commit succeeded but response did not parse",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil
	}

	c.logger.Info("github: file committed",
		slog.String("path", path),
		slog.String("commit", result.Commit.SHA),
		slog.Bool("update", sha != ""),
	)
	return nil
}

// fileSHA looks up the current blob SHA at path.
//
// Returns ("", nil) when the file does not exist (404). Any other non-2xx
// status is an error: without a definitive answer on existence, the follow-up
// PUT would either clobber a file or be rejected for a missing SHA, and
// neither is acceptable.
//
// The lookup is read-only, so a transport-level failure gets exactly one
// retry. Status errors are not retried — GitHub already answered.
func (c *Client) fileSHA(ctx context.Context, token, path string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			c.logger.Debug("github: retrying file lookup",
				slog.String("path", path),
				slog.String("error", lastErr.Error()),
			)
		}

		sha, err := c.lookupSHA(ctx, token, path)
		if err == nil {
			return sha, nil
		}
		if !errors.Is(err, errTransport) {
			return "", err
		}
		lastErr = err
	}
	return "", apperror.Remote("file lookup", lastErr)
}

// errTransport marks lookup failures that happened below HTTP and are safe
// to retry once.
var errTransport = errors.New("transport failure")

func (c *Client) lookupSHA(ctx context.Context, token, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, c.contentsURL(path), token, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", nil // file does not exist yet — this commit will create it
	case resp.StatusCode != http.StatusOK:
		return "", apperror.RemoteStatus("file lookup", resp.StatusCode)
	}

	var meta contentMeta
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", apperror.Remote("file lookup", err)
	}
	if meta.SHA == "" {
		return "", apperror.Remote("file lookup", errors.New("response missing sha"))
	}
	return meta.SHA, nil
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.repo.Owner, c.repo.Name, path)
}

func (c *Client) newRequest(ctx context.Context, method, url, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("github: creating request: %w", err)
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersionHeader)
	return req, nil
}
