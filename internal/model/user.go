// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a GitHub identity that has logged in to the admin area.
//
// WHY ID string?
// GitHub user IDs are large integers. We normalize them to a decimal string
// as soon as they enter the system so that nothing downstream (JSON payloads,
// session claims, SQL keys) can lose precision on a number that was never
// arithmetic to begin with.
//
// Name and AvatarURL come from the GitHub profile and may be empty if the
// user has not set them. We use empty strings as the zero value rather than
// nullable pointers — simpler to work with and safe to display.
type User struct {
	ID        string    `json:"id"        db:"id"`         // GitHub's numeric user ID, as a string
	Login     string    `json:"login"     db:"login"`      // GitHub username, e.g. "octocat"
	Name      string    `json:"name"      db:"name"`       // Display name (may be empty)
	AvatarURL string    `json:"avatarUrl" db:"avatar_url"` // Profile picture URL (may be empty)
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
