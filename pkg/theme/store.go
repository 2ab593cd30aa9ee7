package theme

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/familytree/pkg/watch"
)

// preference is the on-disk form of the saved theme.
type preference struct {
	Theme Theme `toml:"theme"`
}

// Store persists the theme preference in a small TOML file.
type Store struct {
	path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store { return &Store{path: path} }

// Path returns the preference file path.
func (s *Store) Path() string { return s.path }

// Load returns the saved theme. A missing file or empty value yields Default;
// an unknown value is an error.
func (s *Store) Load() (Theme, error) {
	var p preference
	if _, err := toml.DecodeFile(s.path, &p); err != nil {
		if os.IsNotExist(err) {
			return Default, nil
		}
		return Default, fmt.Errorf("read theme preference: %w", err)
	}
	if p.Theme == "" {
		return Default, nil
	}
	return Parse(string(p.Theme))
}

// Save writes t, replacing the file atomically.
func (s *Store) Save(t Theme) error {
	t, err := Parse(string(t))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(preference{Theme: t}); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Watch follows external edits of the preference file and feeds them into n
// until ctx ends. Unreadable or invalid contents are reported to onError and
// leave the current theme unchanged.
func (s *Store) Watch(ctx context.Context, n *Notifier, debounce time.Duration, onError func(error)) (*watch.Watcher, error) {
	if onError == nil {
		onError = func(error) {}
	}
	w, err := watch.New(s.path,
		watch.WithDebounceDuration(debounce),
		watch.WithOnError(onError),
		watch.WithOnChange(func() {
			t, err := s.Load()
			if err != nil {
				onError(err)
				return
			}
			n.Set(t)
		}),
	)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}
