package users

import (
	"fmt"
	"time"

	"unicode"
)

// User is the account entity. The auth core creates it at registration and
// otherwise only reads it.
type User struct {
	ID           string    `json:"id,omitempty"`          // Unique identifier for the user
	Email        string    `json:"email,omitempty"`       // User's email address
	PasswordHash string    `json:"-"`                     // Hashed version of the user's password - never serialize
	DisplayName  string    `json:"displayName,omitempty"` // Name shown on posts and comments
	CreatedAt    time.Time `json:"createdAt,omitempty"`   // Date and time when the user registered
}

// Profile returns the minimal public view of the user: id, email, name.
func (u *User) Profile() *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}
