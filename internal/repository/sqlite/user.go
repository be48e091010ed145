package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/apperror"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/model"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Upsert inserts a user on first login, or refreshes login/name/avatar on
// subsequent logins (the user may have changed them on GitHub).
//
// GitHub guarantees the id is stable and unique, so we can key the upsert on
// it directly with SQLite's ON CONFLICT clause.
func (db *DB) Upsert(ctx context.Context, user *model.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, login, name, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    login      = excluded.login,
		    name       = excluded.name,
		    avatar_url = excluded.avatar_url,
		    updated_at = excluded.updated_at`,
		user.ID,
		user.Login,
		user.Name,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting user %s: %w", user.ID, err)
	}

	// Read the row back so a returning visitor keeps their original
	// created_at rather than the zero value we guessed above.
	stored, err := db.GetByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("sqlite: reading back user %s: %w", user.ID, err)
	}
	user.CreatedAt = stored.CreatedAt

	return nil
}

// GetByID retrieves a user by their GitHub id (string form).
// Returns apperror.ErrNotFound if no user exists with that id.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, login, name, avatar_url, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Login,
		&u.Name,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}
