package cli

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/family"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func fetch(url string) (string, bool) {
	resp, err := http.Get(url)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body), resp.StatusCode == http.StatusOK
}

func TestServeFollowsFileEdits(t *testing.T) {
	dir := isolate(t)
	input := writeLineage(t, dir)
	addr := freeAddr(t)

	c := New(io.Discard, LogInfo)
	ctx, cancel := context.WithCancel(withLogger(context.Background(), c.Logger))
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.runServe(ctx, input, serveOpts{addr: addr}) }()

	var body string
	waitFor(t, func() bool {
		var ok bool
		body, ok = fetch("http://" + addr + "/api/tree")
		return ok
	})
	if !strings.Contains(body, `"Alia"`) {
		t.Fatalf("tree = %s", body)
	}

	edited := lineage()
	edited.Children[1].Name = "Elena"
	if err := family.WriteFile(edited, filepath.Join(dir, "family.json")); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		body, _ = fetch("http://" + addr + "/api/tree")
		return strings.Contains(body, `"Elena"`)
	})

	if person, ok := fetch("http://" + addr + "/api/person/3"); !ok || !strings.Contains(person, `"Smith"`) {
		t.Errorf("person = %s", person)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("runServe() = %v", err)
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"127.0.0.1:9000": "http://127.0.0.1:9000",
	}
	for in, want := range tests {
		if got := displayAddr(in); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
