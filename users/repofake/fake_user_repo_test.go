package fakeuserrepo_test

import (
	"testing"

	"github.com/jrsteele09/go-blog-auth/users"
	fakeuserrepo "github.com/jrsteele09/go-blog-auth/users/repofake"
	"github.com/stretchr/testify/require"
)

// The fake hands out copies, so a caller mutating a returned user cannot
// corrupt the stored state.
func TestReturnedUsersAreCopies(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	original := &users.User{
		Email:       "john.doe@example.com",
		DisplayName: "John Doe",
	}
	require.NoError(t, repo.Upsert(original))
	require.NotEmpty(t, original.ID)

	byEmail, err := repo.GetByEmail(original.Email)
	require.NoError(t, err)
	byEmail.DisplayName = "Mallory"
	byEmail.Email = "mallory@example.com"

	byID, err := repo.GetByID(original.ID)
	require.NoError(t, err)
	require.Equal(t, "John Doe", byID.DisplayName)
	require.Equal(t, "john.doe@example.com", byID.Email)

	// The caller's struct is also detached after Upsert.
	original.DisplayName = "Changed Later"
	stored, err := repo.GetByID(original.ID)
	require.NoError(t, err)
	require.Equal(t, "John Doe", stored.DisplayName)
}
