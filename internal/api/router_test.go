package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/plumeworks/plume-be/internal/credentials"
	"github.com/plumeworks/plume-be/internal/database"
	"github.com/plumeworks/plume-be/internal/maintenance"
	"github.com/plumeworks/plume-be/internal/services"
	"github.com/plumeworks/plume-be/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1) // a second :memory: connection would see an empty schema
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	hub := websocket.NewHub()
	go hub.Run()

	eventSvc := services.NewEventService(db, hub)
	articleSvc := services.NewArticleService(db, eventSvc)
	commentSvc := services.NewCommentService(db, eventSvc)
	userSvc := services.NewUserService(db)

	router := NewRouter(hub, articleSvc, commentSvc, userSvc, eventSvc, userSvc, []string{"*"})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, db
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestSearchEndpoint(t *testing.T) {
	srv, db := setupServer(t)
	_, err := db.Exec("INSERT INTO users(id, name, email) VALUES('u1', 'Alice', 'alice@example.com')")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO articles(id, title, content, author_id) VALUES('a1', 'Élève #1', 'portrait', 'u1')")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/v1/articles/search?q=eleve")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []map[string]interface{}
	decodeJSON(t, resp, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "a1", results[0]["id"])

	// Missing q yields an empty array, not an error.
	resp, err = http.Get(srv.URL + "/api/v1/articles/search")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &results)
	assert.Empty(t, results)
}

func TestArticleNotFound(t *testing.T) {
	srv, _ := setupServer(t)
	resp, err := http.Get(srv.URL + "/api/v1/articles/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateArticle_ValidationRejected(t *testing.T) {
	srv, _ := setupServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/articles", map[string]string{"title": "", "content": "x", "author_id": "nope"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMaintenanceEndpoint_EndToEnd(t *testing.T) {
	srv, db := setupServer(t)
	_, err := db.Exec("INSERT INTO users(id, name, email, password, created_at) VALUES('u1', 'A', 'a@x.com', 'plain1', '2024-01-01 00:00:00')")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO users(id, name, email, password, created_at) VALUES('u2', 'B', 'b@x.com', '$2y$10$hashhashhashhashhashha', '2024-01-01 00:00:01')")
	require.NoError(t, err)

	// Dry run reports without writing.
	var result maintenance.Result
	resp := postJSON(t, srv.URL+"/api/v1/maintenance/credentials", map[string]bool{"dryRun": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &result)
	assert.Equal(t, maintenance.StatusDryRun, result.Status)
	assert.Equal(t, []string{"a@x.com"}, result.Affected)

	// Without confirm the gate declines.
	resp = postJSON(t, srv.URL+"/api/v1/maintenance/credentials", map[string]bool{"dryRun": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &result)
	assert.Equal(t, maintenance.StatusAborted, result.Status)

	// Confirmed run upgrades exactly the plaintext credential.
	resp = postJSON(t, srv.URL+"/api/v1/maintenance/credentials", map[string]bool{"dryRun": false, "confirm": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &result)
	assert.Equal(t, maintenance.StatusUpgraded, result.Status)
	assert.Equal(t, 1, result.Count)

	var pw1, pw2 string
	require.NoError(t, db.QueryRow("SELECT password FROM users WHERE id = 'u1'").Scan(&pw1))
	require.NoError(t, db.QueryRow("SELECT password FROM users WHERE id = 'u2'").Scan(&pw2))
	assert.Equal(t, credentials.Hashed, credentials.Classify(pw1))
	assert.Equal(t, "$2y$10$hashhashhashhashhashha", pw2)

	// A repeat run reports clean.
	resp = postJSON(t, srv.URL+"/api/v1/maintenance/credentials", map[string]bool{"dryRun": false, "confirm": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &result)
	assert.Equal(t, maintenance.StatusClean, result.Status)
}

func TestEventsEndpoint_NewestFirstWithLimit(t *testing.T) {
	srv, db := setupServer(t)
	_, err := db.Exec("INSERT INTO events(id, type, level, message, created_at) VALUES('e1', 'article.created', 'info', 'first', '2026-03-01 12:00:00')")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO events(id, type, level, message, created_at) VALUES('e2', 'article.updated', 'info', 'second', '2026-03-01 12:01:00')")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/v1/events?limit=1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []map[string]interface{}
	decodeJSON(t, resp, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "e2", events[0]["id"])
}

func TestUserEndpoint_CredentialHidden(t *testing.T) {
	srv, _ := setupServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/users", map[string]string{"name": "Alice", "email": "alice@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "Password")
}
