package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/pubhouse/content"
)

func TestRunCreateUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("PUBHOUSE_DATABASE_PATH", dbPath)
	t.Setenv("PUBHOUSE_LOG_LEVEL", "error")

	require.NoError(t, runCreateUser("alice", "alice@example.com", "s3cret!"))

	err := runCreateUser("alice", "other@example.com", "another")
	assert.ErrorContains(t, err, "User with username 'alice' already exists.")

	store, err := content.Open(dbPath, nil)
	require.NoError(t, err)
	defer store.Close()
	u, err := store.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret!")))
}
