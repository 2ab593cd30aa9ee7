package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/store"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.URL != "http://localhost:8080" || cfg.Cache.Backend != CacheFile {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.View.Layout != layout.DefaultConfig() {
		t.Errorf("layout = %+v", cfg.View.Layout)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[backend]
url = "https://family.example.org"
timeout = "3s"

[store]
driver = "sqlite"
dsn = "family.db"

[view.layout]
gap_x = 60

[view.viewport]
fit_padding = 80
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend.URL != "https://family.example.org" || cfg.Backend.Timeout != 3*time.Second {
		t.Errorf("backend = %+v", cfg.Backend)
	}
	if cfg.Backend.Attempts != 1 {
		t.Errorf("attempts default lost: %d", cfg.Backend.Attempts)
	}
	if cfg.Store.Driver != store.DriverSQLite {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.View.Layout.GapX != 60 || cfg.View.Layout.NodeWidth != layout.DefaultNodeWidth {
		t.Errorf("layout = %+v", cfg.View.Layout)
	}
	if cfg.View.Viewport.FitPadding != 80 || cfg.View.Viewport.ScaleMax != 6 {
		t.Errorf("viewport = %+v", cfg.View.Viewport)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[backend\nurl="},
		{"cache backend", "[cache]\nbackend = \"memcached\""},
		{"store driver", "[store]\ndriver = \"csv\""},
		{"backend url", "[backend]\nurl = \"ftp://x\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Server.Addr = ":9999"
	cfg.View.Layout.GapY = 150
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Server.Addr != ":9999" || got.View.Layout.GapY != 150 {
		t.Errorf("round trip lost values: %+v", got)
	}
	if got.View.Debounce != cfg.View.Debounce {
		t.Errorf("debounce = %v, want %v", got.View.Debounce, cfg.View.Debounce)
	}
}

func TestDirHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	if Dir() != "/tmp/xdg/familytree" {
		t.Errorf("Dir = %q", Dir())
	}
	if CacheDir() != "/tmp/xdg-cache/familytree" {
		t.Errorf("CacheDir = %q", CacheDir())
	}
	if Path() != "/tmp/xdg/familytree/config.toml" {
		t.Errorf("Path = %q", Path())
	}
}
