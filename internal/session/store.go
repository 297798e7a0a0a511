package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// sessionPerm keeps the bearer token private to the owner.
const sessionPerm fs.FileMode = 0o600

// SessionStore persists the login between runs.
type SessionStore interface {
	Save(s *Session) error
	Load() (*Session, error) // ErrNoSession when logged out
	Delete() error
	Path() string
}

// fileStore keeps the session as JSON in the XDG data directory.
type fileStore struct {
	path string
}

// NewSessionStore returns a store at $XDG_DATA_HOME/fitflex/session.json,
// falling back to ~/.local/share/fitflex/session.json.
func NewSessionStore() (SessionStore, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &fileStore{path: filepath.Join(dir, "session.json")}, nil
}

func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "fitflex"), nil
}

func (f *fileStore) Path() string { return f.path }

// Save replaces the stored login. A session without a token is refused.
func (f *fileStore) Save(s *Session) error {
	if s == nil || s.Token == "" {
		return errors.New("saving session: missing token")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if err := writeFileAtomic(f.path, data, sessionPerm); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the stored login. A file that does not decode or holds no
// token is removed and reported as ErrNoSession, so the user simply logs in
// again. Permissions looser than owner-only are tightened.
func (f *fileStore) Load() (*Session, error) {
	info, err := os.Stat(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if perm := info.Mode().Perm(); perm&^sessionPerm != 0 {
		log.WithField("mode", perm.String()).Warn("session file readable by others, restricting it")
		if err := os.Chmod(f.path, sessionPerm); err != nil {
			log.WithError(err).Warn("failed to restrict session file")
		}
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil || s.Token == "" {
		log.WithField("path", f.path).Warn("discarding unusable session file")
		if derr := f.Delete(); derr != nil {
			log.WithError(derr).Warn("failed to remove unusable session file")
		}
		return nil, ErrNoSession
	}
	return &s, nil
}

// Delete forgets the login. Deleting when logged out is not an error.
func (f *fileStore) Delete() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place, so
// readers and the session watcher never see a partial file.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
