// Package reader implements the command line entry points over a reading
// session: rendering wrapped pages, dumping RSVP word streams and
// reporting chapter statistics.
package reader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lectern/session"
	"lectern/state"
)

var errNoSource = errors.New("no book source specified")

// openLoader picks the loader matching the source: a directory of
// chapter files or a zip-packaged book (zip, epub).
func openLoader(src string) (session.Loader, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("unable to access book source: %w", err)
	}
	if fi.IsDir() {
		return session.NewDirLoader(src), nil
	}
	switch strings.ToLower(filepath.Ext(src)) {
	case ".zip", ".epub":
		return session.NewZipLoader(src), nil
	}
	return nil, fmt.Errorf("unsupported book source '%s'", src)
}

// openSession opens a book directory with the configured reader settings.
// When the library state path is set, the previous reading position is
// restored and changes persist on close. The returned closer releases
// both the session and the store.
func openSession(ctx context.Context, src string, env *state.LocalEnv) (*session.Session, func() error, error) {
	loader, err := openLoader(src)
	if err != nil {
		return nil, nil, err
	}

	var store *session.Store
	if path := env.Cfg.Library.StatePath; len(path) > 0 {
		st, err := session.OpenStore(path)
		if err != nil {
			env.Log.Warn("Unable to open state database, positions will not persist", zap.Error(err))
		} else {
			store = st
		}
	}

	s, err := session.New(ctx, loader, env.Cfg.Reader, store, env.Log)
	if err != nil {
		multierr.AppendInto(&err, store.Close())
		return nil, nil, err
	}
	return s, func() error {
		err := s.Close()
		return multierr.Append(err, store.Close())
	}, nil
}
