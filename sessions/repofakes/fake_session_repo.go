package fakesessionrepo

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-blog-auth/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory sessions.Repo for tests.
type FakeSessionRepo struct {
	rows map[string]*sessions.RefreshSession
	lock sync.RWMutex

	// Optional fault injection for store-failure paths.
	ListValidErr error
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		rows: make(map[string]*sessions.RefreshSession),
	}
}

func (sr *FakeSessionRepo) Create(session *sessions.RefreshSession) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	copied := *session
	sr.rows[session.ID] = &copied
	return nil
}

func (sr *FakeSessionRepo) ListValid(ownerID string, now time.Time) ([]*sessions.RefreshSession, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	if sr.ListValidErr != nil {
		return nil, sr.ListValidErr
	}

	valid := make([]*sessions.RefreshSession, 0)
	for _, row := range sr.rows {
		if row.OwnerID != ownerID || row.ExpiresAt.Before(now) {
			continue
		}
		copied := *row
		valid = append(valid, &copied)
	}
	return valid, nil
}

func (sr *FakeSessionRepo) DeleteByID(id string) (bool, error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if _, ok := sr.rows[id]; !ok {
		return false, nil
	}
	delete(sr.rows, id)
	return true, nil
}

func (sr *FakeSessionRepo) DeleteAllForOwner(ownerID string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	for id, row := range sr.rows {
		if row.OwnerID == ownerID {
			delete(sr.rows, id)
		}
	}
	return nil
}

func (sr *FakeSessionRepo) DeleteExpired(now time.Time) (int64, error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	var deleted int64
	for id, row := range sr.rows {
		if row.ExpiresAt.Before(now) {
			delete(sr.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

// CountForOwner reports how many rows exist for the owner, expired or not.
// Test helper, not part of sessions.Repo.
func (sr *FakeSessionRepo) CountForOwner(ownerID string) int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	count := 0
	for _, row := range sr.rows {
		if row.OwnerID == ownerID {
			count++
		}
	}
	return count
}
