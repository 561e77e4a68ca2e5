package services

import (
	"strings"
	"testing"

	"github.com/plumeworks/plume-be/internal/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser_HashesPlaintextPassword(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser("Alice", "alice@example.com", "hunter2")
	require.NoError(t, err)
	assert.Empty(t, user.Password, "credential must not be returned")

	var stored string
	require.NoError(t, db.QueryRow("SELECT password FROM users WHERE id = ?", user.ID).Scan(&stored))
	assert.Equal(t, credentials.Hashed, credentials.Classify(stored))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("hunter2")))
}

func TestCreateUser_DoesNotRehashImportedHash(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)

	imported := "$2y$10$abcdefghijklmnopqrstuv"
	user, err := svc.CreateUser("Bob", "bob@example.com", imported)
	require.NoError(t, err)

	var stored string
	require.NoError(t, db.QueryRow("SELECT password FROM users WHERE id = ?", user.ID).Scan(&stored))
	assert.Equal(t, imported, stored)
}

func TestUpdateUser_PasswordGoesThroughSharedRule(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser("Carol", "carol@example.com", "first")
	require.NoError(t, err)

	newPassword := "second"
	_, err = svc.UpdateUser(user.ID, nil, nil, &newPassword)
	require.NoError(t, err)

	var stored string
	require.NoError(t, db.QueryRow("SELECT password FROM users WHERE id = ?", user.ID).Scan(&stored))
	assert.Equal(t, credentials.Hashed, credentials.Classify(stored))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("second")))
}

func TestUpdateUser_HashFailureLeavesRecordUntouched(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)

	user, err := svc.CreateUser("Grace", "grace@example.com", "original")
	require.NoError(t, err)
	var before string
	require.NoError(t, db.QueryRow("SELECT password FROM users WHERE id = ?", user.ID).Scan(&before))

	// bcrypt rejects inputs over 72 bytes, so the whole update must fail.
	name := "Renamed"
	email := "renamed@example.com"
	tooLong := strings.Repeat("p", 80)
	_, err = svc.UpdateUser(user.ID, &name, &email, &tooLong)
	require.Error(t, err)

	var gotName, gotEmail, gotPassword string
	require.NoError(t, db.QueryRow("SELECT name, email, password FROM users WHERE id = ?", user.ID).
		Scan(&gotName, &gotEmail, &gotPassword))
	assert.Equal(t, "Grace", gotName)
	assert.Equal(t, "grace@example.com", gotEmail)
	assert.Equal(t, before, gotPassword)
}

func TestGetUserByID_NeverExposesCredential(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	seedUser(t, db, "u1", "Dave", "dave@example.com", "plaintext-oops")

	user, err := svc.GetUserByID("u1")
	require.NoError(t, err)
	assert.Empty(t, user.Password)
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	_, err := svc.GetUserByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCredentials_NullFoldsToEmpty(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	seedUser(t, db, "u1", "Eve", "eve@example.com", "") // NULL password
	seedUser(t, db, "u2", "Frank", "frank@example.com", "plain")

	creds, err := svc.ListCredentials()
	require.NoError(t, err)
	require.Len(t, creds, 2)
	byEmail := map[string]string{}
	for _, c := range creds {
		byEmail[c.Email] = c.Password
	}
	assert.Equal(t, "", byEmail["eve@example.com"])
	assert.Equal(t, "plain", byEmail["frank@example.com"])
}

func TestUpdateCredential_UnknownUser(t *testing.T) {
	db := setupDB(t)
	svc := NewUserService(db)
	assert.ErrorIs(t, svc.UpdateCredential("missing", "$2a$10$x"), ErrNotFound)
}
