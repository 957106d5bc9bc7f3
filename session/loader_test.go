package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeBook(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<p>x</p>"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestDirLoaderNaturalOrder(t *testing.T) {
	dir := writeBook(t, "ch10.xhtml", "ch2.xhtml", "ch1.xhtml", "notes.txt", "cover.jpg")
	refs, err := NewDirLoader(dir).Chapters(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, r := range refs {
		got = append(got, r.Title)
	}
	want := []string{"ch1", "ch2", "ch10"}
	if len(got) != len(want) {
		t.Fatalf("chapters: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chapter %d: %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDirLoaderStableBookID(t *testing.T) {
	dir := writeBook(t, "ch1.html")
	a := NewDirLoader(dir).BookID()
	b := NewDirLoader(dir).BookID()
	if a != b {
		t.Errorf("identity not stable: %q vs %q", a, b)
	}
	other := NewDirLoader(t.TempDir()).BookID()
	if a == other {
		t.Error("different directories share an identity")
	}
}

func TestDirLoaderFetch(t *testing.T) {
	dir := writeBook(t, "ch1.html")
	l := NewDirLoader(dir)

	rc, err := l.Fetch(context.Background(), "ch1.html")
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(data) != "<p>x</p>" {
		t.Errorf("fetched %q, err %v", data, err)
	}

	if _, err := l.Fetch(context.Background(), filepath.Join("..", "ch1.html")); err == nil {
		t.Error("path traversal not rejected")
	}
}
