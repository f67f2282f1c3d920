// Package sqlsink provides an attachment.Sink that stores attachments as rows
// of a SQLite database.
package sqlsink

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/zostay/go-maildecode/attachment"
)

// ErrNotFound is returned by Get when no attachment has the given ID.
var ErrNotFound = errors.New("attachment not found")

// PathPrefix starts the Path of every attachment saved by a Sink. The ID of
// the row follows it.
const PathPrefix = "sqlite:"

const schema = `
CREATE TABLE IF NOT EXISTS attachments (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    content_type TEXT NOT NULL,
    size INTEGER NOT NULL,
    content BLOB NOT NULL,
    saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Sink saves attachments into the attachments table.
type Sink struct {
	db *sql.DB
}

// Open opens the SQLite database at the given path, creating it and its
// directory as needed, and makes sure the attachments table exists. The path
// ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Sink, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), attachment.DirMode); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one connection keeps an in-memory database alive and serializes writes
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Sink{db}, nil
}

// Close closes the database.
func (s *Sink) Close() error {
	return s.db.Close()
}

// Save inserts the attachment as a new row. The returned Attachment has no
// Content. Its Path is PathPrefix followed by the ID of the row.
func (s *Sink) Save(name, mimeType string, content []byte) (*attachment.Attachment, error) {
	id := uuid.NewString()
	name = strings.ToValidUTF8(name, "\uFFFD")
	size := int64(len(content))

	if content == nil {
		content = []byte{}
	}

	_, err := s.db.Exec(`
		INSERT INTO attachments (id, name, content_type, size, content)
		VALUES (?, ?, ?, ?, ?)
	`, id, name, mimeType, size, content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to insert attachment: %w", attachment.ErrWrite, err)
	}

	return &attachment.Attachment{
		Name:      name,
		MimeType:  mimeType,
		Size:      size,
		HumanSize: attachment.FormatBytes(size),
		Path:      PathPrefix + id,
	}, nil
}

// Get returns the attachment with the given ID, content included. The ID may
// be given with or without PathPrefix.
func (s *Sink) Get(id string) (*attachment.Attachment, error) {
	id = strings.TrimPrefix(id, PathPrefix)

	a := &attachment.Attachment{Path: PathPrefix + id}
	err := s.db.QueryRow(`
		SELECT name, content_type, size, content
		FROM attachments WHERE id = ?
	`, id).Scan(&a.Name, &a.MimeType, &a.Size, &a.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	a.HumanSize = attachment.FormatBytes(a.Size)
	return a, nil
}

// List returns every stored attachment without content, oldest first.
func (s *Sink) List() ([]attachment.Attachment, error) {
	rows, err := s.db.Query(`
		SELECT id, name, content_type, size
		FROM attachments ORDER BY saved_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var as []attachment.Attachment
	for rows.Next() {
		var (
			id string
			a  attachment.Attachment
		)
		if err := rows.Scan(&id, &a.Name, &a.MimeType, &a.Size); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		a.Path = PathPrefix + id
		a.HumanSize = attachment.FormatBytes(a.Size)
		as = append(as, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}

	return as, nil
}
