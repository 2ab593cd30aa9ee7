// Package store serves family data to the reference backend.
//
// A [Store] answers the two questions the viewer asks: the whole hierarchy
// (nested) and one person (flat, children reduced to id and name). Three
// drivers are provided:
//
//   - file: a JSON or YAML document read on every request ([FileStore])
//   - sqlite: a relational schema in a SQLite database ([SQLiteStore])
//   - mongo: one document per person in MongoDB ([MongoStore])
//
// The SQLite and MongoDB stores implement [Importer] so a document can be
// loaded into them with `familytree import`.
package store

import (
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// Driver names accepted by [Open].
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Store reads family data. Implementations are safe for concurrent use.
type Store interface {
	// Tree returns the nested hierarchy, or nil when the store is empty.
	Tree(ctx context.Context) (*family.PersonRecord, error)

	// Person returns one flat record. Unknown ids yield a NOT_FOUND error.
	Person(ctx context.Context, id family.ID) (*family.PersonRecord, error)

	io.Closer
}

// Importer replaces a store's contents with a hierarchy.
type Importer interface {
	// Import stores root and its descendants and returns how many persons
	// were written.
	Import(ctx context.Context, root *family.PersonRecord) (int, error)
}

// Config selects and configures a driver.
type Config struct {
	Driver string `toml:"driver"`
	// DSN is a file path for file and sqlite, a connection URI for mongo.
	DSN string `toml:"dsn"`
	// Database is the MongoDB database name.
	Database string `toml:"database"`
}

// Open creates the store named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFile, "":
		return NewFileStore(cfg.DSN)
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.DSN)
	case DriverMongo:
		return OpenMongo(ctx, cfg.DSN, cfg.Database)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store driver %q", cfg.Driver)
	}
}

// Source returns a stable description of cfg for cache keys and logs.
func (cfg Config) Source() string {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFile
	}
	if cfg.Database != "" {
		return fmt.Sprintf("%s:%s/%s", driver, cfg.DSN, cfg.Database)
	}
	return driver + ":" + cfg.DSN
}

// notFound is the error for an unknown person id.
func notFound(id family.ID) error {
	return errors.New(errors.ErrCodeNotFound, "person %q not found", id)
}

// checkUnique rejects hierarchies with a blank or repeated person id;
// keyed stores cannot represent them.
func checkUnique(root *family.PersonRecord) error {
	seen := make(map[family.ID]bool)
	var err error
	root.Walk(func(rec *family.PersonRecord, _ int) bool {
		switch {
		case rec.ID == "":
			err = errors.New(errors.ErrCodeInvalidID, "person %q has no id", rec.DisplayName())
		case seen[rec.ID]:
			err = errors.New(errors.ErrCodeInvalidID, "duplicate person id %q", rec.ID)
		}
		seen[rec.ID] = true
		return err == nil
	})
	return err
}

// linkedRecord is a person row as keyed stores hold it: the record without
// children plus the parent's id ("" for the root).
type linkedRecord struct {
	rec    family.PersonRecord
	parent family.ID
}

// assemble nests rows under the first parentless row. Sibling order is the
// order of rows.
func assemble(rows []linkedRecord) (*family.PersonRecord, error) {
	children := make(map[family.ID][]int)
	root := -1
	for i, r := range rows {
		if r.parent == "" {
			if root < 0 {
				root = i
			}
			continue
		}
		children[r.parent] = append(children[r.parent], i)
	}
	if root < 0 {
		return nil, errors.New(errors.ErrCodeInternal, "no root person among %d rows", len(rows))
	}

	var build func(i int) family.PersonRecord
	build = func(i int) family.PersonRecord {
		rec := rows[i].rec
		for _, c := range children[rec.ID] {
			rec.Children = append(rec.Children, build(c))
		}
		return rec
	}
	out := build(root)
	return &out, nil
}
