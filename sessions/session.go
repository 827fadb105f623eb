// Package sessions holds the server-side state of issued refresh tokens.
// One row exists per issued, not-yet-consumed refresh token; a user with
// several devices has several rows. Only a one-way hash of the token secret
// is ever stored.
package sessions

import "time"

// RefreshSession represents one outstanding, rotatable refresh credential.
type RefreshSession struct {
	ID         string    // Unique identifier, generated at creation
	OwnerID    string    // The user this session belongs to
	SecretHash string    // One-way hash of the refresh-token secret
	ExpiresAt  time.Time // Sessions past this are inert and treated as absent
	CreatedAt  time.Time // Audit timestamp
}
