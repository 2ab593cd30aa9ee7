package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/errors"
)

func TestImportThenRenderFromSQLite(t *testing.T) {
	dir := isolate(t)
	input := writeLineage(t, dir)
	db := filepath.Join(dir, "family.db")

	if _, err := execute(t, "import", input, "--driver", "sqlite", "--dsn", db); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "from-db.dot")
	if _, err := execute(t, "render", "--driver", "sqlite", "--dsn", db, "-f", "dot", "-o", out, "--detailed"); err != nil {
		t.Fatal(err)
	}
	dot, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Root", "Alia", "Smith"} {
		if !strings.Contains(string(dot), name) {
			t.Errorf("dot output missing %q", name)
		}
	}
}

func TestImportErrors(t *testing.T) {
	dir := isolate(t)
	input := writeLineage(t, dir)
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte("null"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"file driver", []string{"import", input, "--driver", "file", "--dsn", input}, errors.ErrCodeUnsupported},
		{"empty document", []string{"import", empty, "--driver", "sqlite", "--dsn", filepath.Join(dir, "x.db")}, errors.ErrCodeEmptyTree},
		{"missing argument", []string{"import"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.code != "" && !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}
