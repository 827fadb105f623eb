package users_test

import (
	"testing"

	"github.com/jrsteele09/go-blog-auth/users"
	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "Password123", false},
		{"too short", "Pass1", true},
		{"no uppercase", "password123", true},
		{"no lowercase", "PASSWORD123", true},
		{"no number", "PasswordABC", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfileOmitsCredentials(t *testing.T) {
	u := &users.User{
		ID:           "user-1",
		Email:        "john.doe@example.com",
		PasswordHash: "$2a$10$digest",
		DisplayName:  "John Doe",
	}

	profile := u.Profile()
	assert.Equal(t, u.ID, profile.ID)
	assert.Equal(t, u.Email, profile.Email)
	assert.Equal(t, u.DisplayName, profile.DisplayName)
	assert.Empty(t, profile.PasswordHash)
}
