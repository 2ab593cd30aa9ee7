package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS persons (
	id         TEXT PRIMARY KEY,
	parent_id  TEXT REFERENCES persons(id),
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	birth_date TEXT NOT NULL DEFAULT '',
	job        TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	photo_url  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS persons_parent ON persons(parent_id, position);
CREATE TABLE IF NOT EXISTS spouses (
	person_id TEXT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	seq       INTEGER NOT NULL,
	ord       INTEGER NOT NULL DEFAULT 0,
	name      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (person_id, seq)
);
`

// SQLiteStore keeps persons in a parent-linked table. Sibling order is the
// position column; spouses live in their own table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file.
func (s *SQLiteStore) Path() string { return s.path }

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Tree loads every person and assembles the hierarchy.
func (s *SQLiteStore) Tree(ctx context.Context) (*family.PersonRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, name, birth_date, job, notes, photo_url
		FROM persons
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	var all []linkedRecord
	for rows.Next() {
		var r linkedRecord
		var id string
		var parent sql.NullString
		if err := rows.Scan(&id, &parent, &r.rec.Name, &r.rec.BirthDate, &r.rec.Job, &r.rec.Notes, &r.rec.PhotoURL); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		r.rec.ID = family.ID(id)
		r.parent = family.ID(parent.String)
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	spouses, err := s.allSpouses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i].rec.Spouses = spouses[string(all[i].rec.ID)]
	}
	return assemble(all)
}

// Person loads one person with spouses and the id and name of each child.
func (s *SQLiteStore) Person(ctx context.Context, id family.ID) (*family.PersonRecord, error) {
	rec := family.PersonRecord{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT name, birth_date, job, notes, photo_url FROM persons WHERE id = ?`, string(id)).
		Scan(&rec.Name, &rec.BirthDate, &rec.Job, &rec.Notes, &rec.PhotoURL)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("query person %s: %w", id, err)
	}

	if rec.Spouses, err = s.spousesOf(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM persons WHERE parent_id = ? ORDER BY position, id`, string(id))
	if err != nil {
		return nil, fmt.Errorf("query children of %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var cid, name string
		if err := rows.Scan(&cid, &name); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		rec.Children = append(rec.Children, family.PersonRecord{ID: family.ID(cid), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStore) allSpouses(ctx context.Context) (map[string][]family.Spouse, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT person_id, ord, name FROM spouses ORDER BY person_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("query spouses: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]family.Spouse)
	for rows.Next() {
		var pid string
		var sp family.Spouse
		if err := rows.Scan(&pid, &sp.Ord, &sp.Name); err != nil {
			return nil, fmt.Errorf("scan spouse: %w", err)
		}
		out[pid] = append(out[pid], sp)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) spousesOf(ctx context.Context, id family.ID) ([]family.Spouse, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ord, name FROM spouses WHERE person_id = ? ORDER BY seq`, string(id))
	if err != nil {
		return nil, fmt.Errorf("query spouses of %s: %w", id, err)
	}
	defer rows.Close()
	var out []family.Spouse
	for rows.Next() {
		var sp family.Spouse
		if err := rows.Scan(&sp.Ord, &sp.Name); err != nil {
			return nil, fmt.Errorf("scan spouse: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// Import replaces all rows with root's hierarchy in one transaction.
func (s *SQLiteStore) Import(ctx context.Context, root *family.PersonRecord) (int, error) {
	if root == nil {
		return 0, errors.New(errors.ErrCodeEmptyTree, "nothing to import")
	}
	if err := checkUnique(root); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM spouses", "DELETE FROM persons"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("clear: %w", err)
		}
	}

	insPerson, err := tx.PrepareContext(ctx, `
		INSERT INTO persons (id, parent_id, position, name, birth_date, job, notes, photo_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer insPerson.Close()
	insSpouse, err := tx.PrepareContext(ctx, `INSERT INTO spouses (person_id, seq, ord, name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer insSpouse.Close()

	count := 0
	var insert func(rec *family.PersonRecord, parent sql.NullString, position int) error
	insert = func(rec *family.PersonRecord, parent sql.NullString, position int) error {
		_, err := insPerson.ExecContext(ctx, string(rec.ID), parent, position,
			strings.TrimSpace(rec.Name), rec.BirthDate, rec.Job, rec.Notes, rec.PhotoURL)
		if err != nil {
			return fmt.Errorf("insert person %s: %w", rec.ID, err)
		}
		count++
		for i, sp := range rec.Spouses {
			if _, err := insSpouse.ExecContext(ctx, string(rec.ID), i, sp.Ord, sp.Name); err != nil {
				return fmt.Errorf("insert spouse of %s: %w", rec.ID, err)
			}
		}
		self := sql.NullString{String: string(rec.ID), Valid: true}
		for i := range rec.Children {
			if err := insert(&rec.Children[i], self, i); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(root, sql.NullString{}, 0); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}

var (
	_ Store    = (*SQLiteStore)(nil)
	_ Importer = (*SQLiteStore)(nil)
)
