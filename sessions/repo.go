package sessions

import "time"

// Repo manages server-side storage of refresh sessions. Rows are never
// updated in place: rotation deletes the consumed row and inserts a new one.
type Repo interface {
	// Create inserts a new session row.
	Create(session *RefreshSession) error

	// ListValid returns the owner's sessions with ExpiresAt >= now.
	// Ordering is unspecified.
	ListValid(ownerID string, now time.Time) ([]*RefreshSession, error)

	// DeleteByID removes one row and reports whether it existed. A false
	// return means a concurrent caller consumed the row first; rotation
	// treats that as reuse.
	DeleteByID(id string) (bool, error)

	// DeleteAllForOwner removes every row for the owner, logging out all
	// devices. Deleting zero rows is not an error.
	DeleteAllForOwner(ownerID string) error

	// DeleteExpired garbage-collects rows with ExpiresAt < now and returns
	// how many were removed.
	DeleteExpired(now time.Time) (int64, error)
}
