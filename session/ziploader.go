package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"archive/zip"

	"github.com/google/uuid"
	"github.com/maruel/natural"

	"lectern/archive"
)

// ZipLoader serves chapters from markup entries of a zip-packaged book
// (a plain zip of chapter files or an EPUB container). Entries are
// ordered naturally by full name, so directory grouping survives.
type ZipLoader struct {
	path string
}

func NewZipLoader(path string) *ZipLoader {
	return &ZipLoader{path: path}
}

// isMarkupEntry accepts chapter markup and skips EPUB container
// plumbing under META-INF.
func isMarkupEntry(name string) bool {
	if strings.HasPrefix(name, "META-INF/") {
		return false
	}
	return markupExt[strings.ToLower(path.Ext(name))]
}

// BookID derives a stable identity from the archive location.
func (l *ZipLoader) BookID() string {
	abs, err := filepath.Abs(l.path)
	if err != nil {
		abs = l.path
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)).String()
}

func (l *ZipLoader) Chapters(_ context.Context) ([]ChapterRef, error) {
	var names []string
	err := archive.Walk(l.path, isMarkupEntry, func(_ string, f *zip.File) error {
		names = append(names, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read book archive: %w", err)
	}
	sort.Sort(natural.StringSlice(names))

	refs := make([]ChapterRef, 0, len(names))
	for _, name := range names {
		base := path.Base(name)
		refs = append(refs, ChapterRef{
			ID:    name,
			Title: strings.TrimSuffix(base, path.Ext(base)),
		})
	}
	return refs, nil
}

// Fetch reads the whole entry up front, the archive stays open only for
// the duration of the call.
func (l *ZipLoader) Fetch(_ context.Context, id string) (io.ReadCloser, error) {
	var data []byte
	found := false
	err := archive.Walk(l.path, func(name string) bool { return name == id }, func(_ string, f *zip.File) error {
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err = io.ReadAll(rc)
		found = err == nil
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read chapter %q: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("no chapter %q in archive", id)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
