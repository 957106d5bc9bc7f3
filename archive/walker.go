// Package archive builds Walk abstraction on top of "archive/zip" for
// zip-packaged books.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed
// to Walk, the file argument is the zip.File structure for a matching
// entry. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk visits all regular files in the archive whose names satisfy match,
// calling walkFn for each. A nil match visits everything. Entries with
// path traversal components ("..") or absolute paths abort the walk to
// prevent Zip Slip attacks.
func Walk(archive string, match func(name string) bool, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if match != nil && !match(name) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
