package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/maruel/natural"
)

// ChapterRef identifies one chapter of an open book. IDs are stable for
// the lifetime of the book and key the layout cache.
type ChapterRef struct {
	ID    string
	Title string
}

// Loader supplies the ordered chapter list and raw chapter markup. The
// session never retries failed fetches; retry policy belongs to the loader.
type Loader interface {
	BookID() string
	Chapters(ctx context.Context) ([]ChapterRef, error)
	Fetch(ctx context.Context, id string) (io.ReadCloser, error)
}

var markupExt = map[string]bool{
	".xhtml": true,
	".html":  true,
	".htm":   true,
	".xml":   true,
}

// DirLoader serves chapters from markup files in a directory. Files are
// ordered naturally by name, so chapter2 sorts before chapter10.
type DirLoader struct {
	dir string
}

func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{dir: dir}
}

// BookID derives a stable identity from the directory location.
func (l *DirLoader) BookID() string {
	abs, err := filepath.Abs(l.dir)
	if err != nil {
		abs = l.dir
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String()
}

func (l *DirLoader) Chapters(_ context.Context) ([]ChapterRef, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read book directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !markupExt[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(natural.StringSlice(names))

	refs := make([]ChapterRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, ChapterRef{
			ID:    name,
			Title: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}
	return refs, nil
}

func (l *DirLoader) Fetch(_ context.Context, id string) (io.ReadCloser, error) {
	if filepath.Base(id) != id {
		return nil, fmt.Errorf("invalid chapter id %q", id)
	}
	f, err := os.Open(filepath.Join(l.dir, id))
	if err != nil {
		return nil, fmt.Errorf("unable to open chapter: %w", err)
	}
	return f, nil
}
