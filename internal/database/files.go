package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/meetapp-io/meetapp/internal/models"
)

// FileStore persists uploaded banner files. Rows are immutable after
// creation.
type FileStore struct {
	db *DB
}

// NewFileStore creates a new FileStore
func NewFileStore(db *DB) *FileStore {
	return &FileStore{db: db}
}

// Create inserts a new file record.
func (s *FileStore) Create(ctx context.Context, f *models.File) error {
	f.CreatedAt = time.Now().UTC()

	id, err := s.db.insertID(ctx,
		`INSERT INTO files (path, url, created_at) VALUES (?, ?, ?)`,
		f.Path, f.URL, f.CreatedAt,
	)
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

// GetByID retrieves a file by id.
func (s *FileStore) GetByID(ctx context.Context, id int64) (*models.File, error) {
	var f models.File
	err := s.db.GetContext(ctx, &f,
		s.db.Rebind(`SELECT * FROM files WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns all uploaded files, newest first.
func (s *FileStore) List(ctx context.Context) ([]*models.File, error) {
	var files []*models.File
	err := s.db.SelectContext(ctx, &files,
		`SELECT * FROM files ORDER BY created_at DESC`)
	return files, err
}
