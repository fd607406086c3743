package token

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// FileStore is a Store which persists the session to disk, so that it
// survives restarts. Each backend gets its own file in the directory, named
// by a SHA-256 hash of the backend URL, holding the tokens encrypted with
// AES-256-GCM under a key derived from a passphrase.
type FileStore struct {
	*MemoryStore
	mu         sync.Mutex
	passphrase string
	path       string
}

var _ Store = (*FileStore)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DirPerm  os.FileMode = 0o700
	FilePerm os.FileMode = 0o600

	fileExt = ".session"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewFileStore creates a store for the backend at url, rooted at dir. The
// directory is created if it does not exist, and any session previously
// saved for the backend is loaded.
func NewFileStore(dir, url, passphrase string, opts ...Opt) (*FileStore, error) {
	if dir == "" {
		return nil, lingo.ErrBadParameter.With("directory is required")
	} else if url == "" {
		return nil, lingo.ErrBadParameter.With("url is required")
	} else if err := validatePassphrase(passphrase); err != nil {
		return nil, err
	} else if err := os.MkdirAll(dir, DirPerm); err != nil {
		return nil, lingo.ErrInternalServerError.Withf("mkdir: %v", err)
	}

	memory, err := NewMemoryStore(opts...)
	if err != nil {
		return nil, err
	}
	s := &FileStore{
		MemoryStore: memory,
		passphrase:  passphrase,
		path:        sessionPath(dir, url),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// SetTokens replaces both tokens and writes them to disk
func (s *FileStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.MemoryStore.SetTokens(access, refresh); err != nil {
		return err
	}

	plaintext, err := json.Marshal(schema.Tokens{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return fmt.Errorf("session marshal failed: %w", err)
	}
	blob, err := seal(s.passphrase, plaintext)
	if err != nil {
		return fmt.Errorf("session encrypt failed: %w", err)
	}
	if err := writeFile(s.path, blob); err != nil {
		return fmt.Errorf("session write failed: %w", err)
	}
	return nil
}

// Logout clears the session, removes it from disk and calls the logout
// function, if set
func (s *FileStore) Logout(reason string) {
	s.mu.Lock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.WithError(err).Error("session delete failed")
	}
	s.mu.Unlock()

	s.MemoryStore.Logout(reason)
}

// Path returns the file which holds the session
func (s *FileStore) Path() string {
	return s.path
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *FileStore) load() error {
	blob, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("session read failed: %w", err)
	}

	plaintext, err := open(s.passphrase, blob)
	if err != nil {
		return fmt.Errorf("session decrypt failed: %w", err)
	}
	var tokens schema.Tokens
	if err := json.Unmarshal(plaintext, &tokens); err != nil {
		return fmt.Errorf("session unmarshal failed: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil
	}
	return s.MemoryStore.SetTokens(tokens.AccessToken, tokens.RefreshToken)
}

func sessionPath(dir, url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(dir, hex.EncodeToString(sum[:])+fileExt)
}

// writeFile replaces the file at path with data. The data is written to a
// temporary file in the same directory, which is then renamed over path,
// so a reader sees either the old or the new session.
func writeFile(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err := f.Chmod(FilePerm); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
