package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS positions (
	book_id TEXT PRIMARY KEY,
	chapter INTEGER NOT NULL,
	line    INTEGER NOT NULL,
	updated TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS playback (
	book_id    TEXT PRIMARY KEY,
	word_index INTEGER NOT NULL,
	wpm        INTEGER NOT NULL,
	updated    TEXT NOT NULL
);
`

// Store persists reading positions and playback settings per book in a
// local SQLite database.
type Store struct {
	conn *sqlite.Conn
}

// OpenStore opens (creating if needed) the state database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("unable to create state directory: %w", err)
		}
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open state database: %w", err)
	}
	if err := sqlitex.ExecuteScript(conn, storeSchema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare state schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	return conn.Close()
}

var errStoreClosed = errors.New("session: store is closed")

// SavePosition upserts the reading position for a book.
func (s *Store) SavePosition(bookID string, pos Position) error {
	if s.conn == nil {
		return errStoreClosed
	}
	return sqlitex.Execute(s.conn,
		`INSERT INTO positions (book_id, chapter, line, updated) VALUES (?, ?, ?, ?)
		 ON CONFLICT (book_id) DO UPDATE SET
		   chapter = excluded.chapter, line = excluded.line, updated = excluded.updated`,
		&sqlitex.ExecOptions{
			Args: []any{bookID, pos.Chapter, pos.Line, time.Now().UTC().Format(time.RFC3339)},
		})
}

// LoadPosition returns the stored reading position for a book, reporting
// whether one exists.
func (s *Store) LoadPosition(bookID string) (Position, bool, error) {
	var pos Position
	found := false
	if s.conn == nil {
		return pos, false, errStoreClosed
	}
	err := sqlitex.Execute(s.conn,
		`SELECT chapter, line FROM positions WHERE book_id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{bookID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				pos.Chapter = stmt.ColumnInt(0)
				pos.Line = stmt.ColumnInt(1)
				found = true
				return nil
			},
		})
	return pos, found, err
}

// SavePlayback upserts the RSVP word index and speed for a book.
func (s *Store) SavePlayback(bookID string, wordIndex, wpm int) error {
	if s.conn == nil {
		return errStoreClosed
	}
	return sqlitex.Execute(s.conn,
		`INSERT INTO playback (book_id, word_index, wpm, updated) VALUES (?, ?, ?, ?)
		 ON CONFLICT (book_id) DO UPDATE SET
		   word_index = excluded.word_index, wpm = excluded.wpm, updated = excluded.updated`,
		&sqlitex.ExecOptions{
			Args: []any{bookID, wordIndex, wpm, time.Now().UTC().Format(time.RFC3339)},
		})
}

// LoadPlayback returns the stored RSVP word index and speed for a book.
func (s *Store) LoadPlayback(bookID string) (wordIndex, wpm int, found bool, err error) {
	if s.conn == nil {
		return 0, 0, false, errStoreClosed
	}
	err = sqlitex.Execute(s.conn,
		`SELECT word_index, wpm FROM playback WHERE book_id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{bookID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				wordIndex = stmt.ColumnInt(0)
				wpm = stmt.ColumnInt(1)
				found = true
				return nil
			},
		})
	return wordIndex, wpm, found, err
}
