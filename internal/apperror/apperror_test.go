package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("post", "hello-world"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("slug", "slug is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("posts/hello-world.md"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("not authenticated"),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "Remote wraps ErrRemote",
			err:       Remote("token exchange", errors.New("boom")),
			target:    ErrRemote,
			wantMatch: true,
		},
		{
			name:      "RemoteStatus wraps ErrRemote",
			err:       RemoteStatus("profile fetch", 500),
			target:    ErrRemote,
			wantMatch: true,
		},
		{
			name:      "Configuration wraps ErrConfiguration",
			err:       Configuration("GITHUB_CLIENT_ID is not set"),
			target:    ErrConfiguration,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("post", "hello-world"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Conflict does NOT match ErrRemote",
			err:       Conflict("posts/hello-world.md"),
			target:    ErrRemote,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("post", "hello-world"),
			wantMessage: "post not found with id hello-world",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("slug", "slug is required"),
			wantMessage: "slug is required",
		},
		{
			name:        "Conflict message includes path",
			err:         Conflict("posts/hello-world.md"),
			wantMessage: "concurrent edit detected for posts/hello-world.md",
		},
		{
			name:        "Remote message hides the raw cause",
			err:         Remote("commit", errors.New("dial tcp: connection refused")),
			wantMessage: "commit failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("slug", "slug must be lowercase")

	if err.Field != "slug" {
		t.Errorf("Field = %q, want %q", err.Field, "slug")
	}
}
