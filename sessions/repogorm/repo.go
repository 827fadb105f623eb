// Package repogorm persists refresh sessions in a relational table via GORM.
package repogorm

import (
	"time"

	"github.com/jrsteele09/go-blog-auth/sessions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RefreshSessionRow is the table mapping for sessions.RefreshSession.
type RefreshSessionRow struct {
	ID         string    `gorm:"primaryKey"`
	OwnerID    string    `gorm:"index;not null"`
	SecretHash string    `gorm:"not null"`
	ExpiresAt  time.Time `gorm:"index;not null"`
	CreatedAt  time.Time
}

func (RefreshSessionRow) TableName() string { return "refresh_sessions" }

var _ sessions.Repo = (*Repo)(nil)

// Repo implements sessions.Repo on a *gorm.DB.
type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Migrate creates or updates the refresh_sessions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&RefreshSessionRow{})
}

func (r *Repo) Create(session *sessions.RefreshSession) error {
	row := RefreshSessionRow{
		ID:         session.ID,
		OwnerID:    session.OwnerID,
		SecretHash: session.SecretHash,
		ExpiresAt:  session.ExpiresAt,
		CreatedAt:  session.CreatedAt,
	}
	if err := r.db.Create(&row).Error; err != nil {
		return errors.Wrap(err, "[sessions repogorm.Create]")
	}
	return nil
}

func (r *Repo) ListValid(ownerID string, now time.Time) ([]*sessions.RefreshSession, error) {
	var rows []RefreshSessionRow
	err := r.db.
		Where("owner_id = ? AND expires_at >= ?", ownerID, now).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "[sessions repogorm.ListValid]")
	}

	valid := make([]*sessions.RefreshSession, 0, len(rows))
	for _, row := range rows {
		valid = append(valid, &sessions.RefreshSession{
			ID:         row.ID,
			OwnerID:    row.OwnerID,
			SecretHash: row.SecretHash,
			ExpiresAt:  row.ExpiresAt,
			CreatedAt:  row.CreatedAt,
		})
	}
	return valid, nil
}

// DeleteByID issues a single DELETE and reports the affected-row count, so
// two concurrent rotations of the same token cannot both see success.
func (r *Repo) DeleteByID(id string) (bool, error) {
	res := r.db.Where("id = ?", id).Delete(&RefreshSessionRow{})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "[sessions repogorm.DeleteByID]")
	}
	return res.RowsAffected > 0, nil
}

func (r *Repo) DeleteAllForOwner(ownerID string) error {
	err := r.db.Where("owner_id = ?", ownerID).Delete(&RefreshSessionRow{}).Error
	if err != nil {
		return errors.Wrap(err, "[sessions repogorm.DeleteAllForOwner]")
	}
	return nil
}

func (r *Repo) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at < ?", now).Delete(&RefreshSessionRow{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "[sessions repogorm.DeleteExpired]")
	}
	return res.RowsAffected, nil
}
