package users

import "errors"

// NotFoundErr is returned by repos when no matching user exists. Any other
// error means the store itself failed.
var NotFoundErr = errors.New("user not found")

type UserRepo interface {
	Upsert(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	Delete(id string) error
}
