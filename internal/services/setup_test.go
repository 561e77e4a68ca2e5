package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/plumeworks/plume-be/internal/database"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1) // a second :memory: connection would see an empty schema
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// seedUser inserts a user row directly, bypassing the hash-on-write rule,
// the way rows imported from the legacy system look.
func seedUser(t *testing.T, db *sql.DB, id, name, email, password string) {
	t.Helper()
	var pw interface{}
	if password != "" {
		pw = password
	}
	_, err := db.Exec("INSERT INTO users(id, name, email, password) VALUES(?, ?, ?, ?)", id, name, email, pw)
	require.NoError(t, err)
}

func seedArticle(t *testing.T, db *sql.DB, id, title, content, authorID string, createdAt time.Time) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO articles(id, title, content, author_id, published_at, created_at) VALUES(?, ?, ?, ?, ?, ?)",
		id, title, content, authorID, createdAt, createdAt)
	require.NoError(t, err)
}
