package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/familytree/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"light", Light, false},
		{" Dark ", Dark, false},
		{"sepia", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidTheme) {
			t.Errorf("Parse(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToggleAndSkin(t *testing.T) {
	if Dark.Toggle() != Light || Light.Toggle() != Dark {
		t.Error("Toggle should swap light and dark")
	}
	if s := Dark.Skin(); s.BoxBackground != "#16191E" || s.PhotoBorder != "#D4AF37" {
		t.Errorf("dark skin = %+v", s)
	}
	if Light.Skin().Theme != Light {
		t.Error("light skin tagged with wrong theme")
	}
}

func TestNotifierOnlyOnChange(t *testing.T) {
	n := NewNotifier(Dark)

	var got []Theme
	unsubscribe := n.OnThemeChanged(func(th Theme) { got = append(got, th) })

	if n.Set(Dark) {
		t.Error("Set to current theme reported a change")
	}
	if !n.Set(Light) {
		t.Error("Set to a new theme reported no change")
	}
	n.Set(Light)
	n.Set("neon")
	if n.Toggle() != Dark {
		t.Error("Toggle from light should give dark")
	}

	if len(got) != 2 || got[0] != Light || got[1] != Dark {
		t.Errorf("handler calls = %v, want [light dark]", got)
	}

	unsubscribe()
	n.Set(Light)
	if len(got) != 2 {
		t.Errorf("handler called after unsubscribe: %v", got)
	}
}

func TestNotifierOrder(t *testing.T) {
	n := NewNotifier("")
	if n.Current() != Default {
		t.Fatalf("Current = %q, want default", n.Current())
	}
	var order []int
	n.OnThemeChanged(func(Theme) { order = append(order, 1) })
	n.OnThemeChanged(func(Theme) { order = append(order, 2) })
	n.Set(Light)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v", order)
	}
}

func TestStore(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "familytree", "theme.toml"))

	got, err := s.Load()
	if err != nil || got != Default {
		t.Fatalf("Load() on missing file = %q, %v", got, err)
	}

	if err := s.Save(Light); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, _ := s.Load(); got != Light {
		t.Errorf("Load() = %q, want light", got)
	}

	if err := s.Save("neon"); err == nil {
		t.Error("Save accepted an invalid theme")
	}

	if err := os.WriteFile(s.Path(), []byte(`theme = "sepia"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(); !errors.Is(err, errors.ErrCodeInvalidTheme) {
		t.Errorf("Load() invalid value error = %v", err)
	}
}

func TestStoreWatch(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "theme.toml"))
	if err := s.Save(Dark); err != nil {
		t.Fatal(err)
	}

	n := NewNotifier(Dark)
	changed := make(chan Theme, 1)
	n.OnThemeChanged(func(th Theme) { changed <- th })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := s.Watch(ctx, n, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := s.Save(Light); err != nil {
		t.Fatal(err)
	}
	select {
	case th := <-changed:
		if th != Light {
			t.Errorf("watched theme = %q, want light", th)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("external edit not observed")
	}
}
