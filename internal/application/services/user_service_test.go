package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

func TestUpdateUserProfile(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	alice := e.addUser("alice", "alice@example.com")

	first := "Alice"
	updated, err := e.userSvc.UpdateUser(ctx, alice.ID, ports.UpdateUserRequest{FirstName: &first})
	require.NoError(t, err)
	require.NotNil(t, updated.FirstName)
	assert.Equal(t, "Alice", *updated.FirstName)
	assert.Empty(t, updated.PasswordHash)
}

func TestChangePassword(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	require.NoError(t, err)

	alice := e.addUser("alice", "alice@example.com")
	require.NoError(t, e.users.UpdatePassword(ctx, alice.ID, string(hash)))

	err = e.userSvc.ChangePassword(ctx, alice.ID, "wrongpassword", "newpassword1")
	assert.ErrorIs(t, err, entities.ErrWrongPassword)

	require.NoError(t, e.userSvc.ChangePassword(ctx, alice.ID, "oldpassword", "newpassword1"))

	stored, err := e.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpassword1")))
}

func TestSearchUsers(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.addUser("alice", "alice@example.com")
	e.addUser("alicia", "alicia@example.com")
	e.addUser("bob", "bob@example.com")

	results, err := e.userSvc.SearchUsers(ctx, "alic")
	require.NoError(t, err)
	assert.Len(t, results, 2)
	for _, u := range results {
		assert.Empty(t, u.PasswordHash)
	}

	results, err = e.userSvc.SearchUsers(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, results, "blank query matches nothing")
}
