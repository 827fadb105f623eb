// Package repogorm persists users in a relational table via GORM.
package repogorm

import (
	"time"

	"github.com/jrsteele09/go-blog-auth/users"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserRow is the table mapping for users.User.
type UserRow struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	DisplayName  string `gorm:"not null"`
	CreatedAt    time.Time
}

func (UserRow) TableName() string { return "users" }

var _ users.UserRepo = (*Repo)(nil)

// Repo implements users.UserRepo on a *gorm.DB.
type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserRow{})
}

func (r *Repo) Upsert(user *users.User) error {
	row := UserRow{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		DisplayName:  user.DisplayName,
		CreatedAt:    user.CreatedAt,
	}
	if err := r.db.Save(&row).Error; err != nil {
		return errors.Wrap(err, "[users repogorm.Upsert]")
	}
	return nil
}

func (r *Repo) GetByEmail(email string) (*users.User, error) {
	var row UserRow
	if err := r.db.Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.NotFoundErr
		}
		return nil, errors.Wrap(err, "[users repogorm.GetByEmail]")
	}
	return fromRow(&row), nil
}

func (r *Repo) GetByID(id string) (*users.User, error) {
	var row UserRow
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.NotFoundErr
		}
		return nil, errors.Wrap(err, "[users repogorm.GetByID]")
	}
	return fromRow(&row), nil
}

func (r *Repo) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&UserRow{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "[users repogorm.Delete]")
	}
	if res.RowsAffected == 0 {
		return users.NotFoundErr
	}
	return nil
}

func fromRow(row *UserRow) *users.User {
	return &users.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		DisplayName:  row.DisplayName,
		CreatedAt:    row.CreatedAt,
	}
}
