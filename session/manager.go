// Package session provides a cookie-backed key-value session store. Each
// browser gets an opaque session ID in a cookie; values live in SQLite so
// games survive server restarts.
package session

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const cookieName = "dm_session"

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT NOT NULL,
	key        TEXT NOT NULL,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (id, key)
);`

// Manager stores per-session values keyed by (session ID, key).
type Manager struct {
	db *sql.DB
}

// NewManager opens (creating if needed) the session database at path.
func NewManager(path string) (*Manager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session db: %w", err)
	}
	return &Manager{db: db}, nil
}

// Close releases the underlying database.
func (m *Manager) Close() error {
	return m.db.Close()
}

// Open returns the request's session ID, issuing a new cookie when the
// request carries none. The ID also serves as the player identity for save
// files, so the cookie is long-lived.
func (m *Manager) Open(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Get reads the value stored under (id, key). The second return value is
// false when nothing is stored.
func (m *Manager) Get(id, key string) ([]byte, bool, error) {
	var data []byte
	err := m.db.QueryRow(
		`SELECT data FROM sessions WHERE id = ? AND key = ?`, id, key,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session get %s: %w", key, err)
	}
	return data, true, nil
}

// Put stores a value under (id, key), replacing any previous one.
func (m *Manager) Put(id, key string, data []byte) error {
	_, err := m.db.Exec(
		`INSERT INTO sessions (id, key, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id, key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, key, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("session put %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under (id, key), if any.
func (m *Manager) Delete(id, key string) error {
	if _, err := m.db.Exec(`DELETE FROM sessions WHERE id = ? AND key = ?`, id, key); err != nil {
		return fmt.Errorf("session delete %s: %w", key, err)
	}
	return nil
}

// Pop reads and removes the value under (id, key) in one step. Used for
// one-shot values such as turn notices surviving a redirect.
func (m *Manager) Pop(id, key string) ([]byte, bool, error) {
	data, ok, err := m.Get(id, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	if err := m.Delete(id, key); err != nil {
		return nil, false, err
	}
	return data, true, nil
}
