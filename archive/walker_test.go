package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeZip(t *testing.T, names map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "book.zip")

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	for name, content := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return zipPath
}

func TestWalkMatch(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"OEBPS/ch1.xhtml":     "<p>one</p>",
		"OEBPS/ch2.xhtml":     "<p>two</p>",
		"OEBPS/style.css":     "p {}",
		"META-INF/container.xml": "<container/>",
	})

	var visited []string
	err := Walk(zipPath, func(name string) bool {
		return strings.HasSuffix(name, ".xhtml")
	}, func(_ string, f *zip.File) error {
		visited = append(visited, f.Name)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(visited) != 2 {
		t.Errorf("visited %v", visited)
	}
}

func TestWalkNilMatchVisitsAll(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
	})

	count := 0
	err := Walk(zipPath, nil, func(string, *zip.File) error {
		count++
		return nil
	})
	if err != nil || count != 2 {
		t.Errorf("count=%d err=%v", count, err)
	}
}

func TestWalkRejectsTraversal(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"../escape.xhtml": "<p>bad</p>",
	})

	err := Walk(zipPath, nil, func(string, *zip.File) error { return nil })
	if err == nil {
		t.Error("traversal entry not rejected")
	}
}

func TestWalkStopsOnError(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"a.txt": "a",
		"b.txt": "b",
	})

	count := 0
	err := Walk(zipPath, nil, func(string, *zip.File) error {
		count++
		return os.ErrClosed
	})
	if err == nil || count != 1 {
		t.Errorf("count=%d err=%v", count, err)
	}
}
