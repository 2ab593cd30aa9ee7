package store

import (
	"context"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// FileStore serves a JSON or YAML document. The file is re-read on every
// call so edits show up without a restart.
type FileStore struct {
	path string
}

// NewFileStore validates path and returns a store for it. The file does
// not have to exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// Path returns the served document.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Tree(ctx context.Context) (*family.PersonRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return family.ReadFile(s.path)
}

func (s *FileStore) Person(ctx context.Context, id family.ID) (*family.PersonRecord, error) {
	root, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := root.Find(id)
	if !ok {
		return nil, notFound(id)
	}
	flat := rec.Flat()
	return &flat, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
