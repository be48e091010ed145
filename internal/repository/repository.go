// Package repository defines the data-access interfaces the service layer
// programs against. Implementations live in subpackages: sqlite for the user
// registry, postfs for the filesystem post store.
package repository

import (
	"context"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/model"
)

// UserRepository records the GitHub users who have logged in.
type UserRepository interface {
	// Upsert inserts the user on first login and refreshes their profile
	// fields on subsequent logins.
	Upsert(ctx context.Context, user *model.User) error
	// GetByID returns the user with the given GitHub id (string form).
	// Returns apperror.ErrNotFound if no such user has logged in.
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// PostRepository reads published posts.
//
// Posts are written by committing to the GitHub repository, not through this
// interface — the local posts directory is a read-only checkout that some
// external mechanism (a deploy hook, a cron pull) keeps in sync.
type PostRepository interface {
	// ListMeta returns metadata for all posts, newest first.
	ListMeta(ctx context.Context) ([]model.PostMeta, error)
	// GetBySlug returns a single post with its Markdown body.
	// Returns apperror.ErrNotFound if no post has that slug.
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
}
