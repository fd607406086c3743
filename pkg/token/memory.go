package token

import (
	"errors"
	"io"
	"sync"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	logrus "github.com/sirupsen/logrus"
	oauth2 "golang.org/x/oauth2"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// MemoryStore is an in-memory implementation of Store. The session is lost
// when the process exits. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	access   string
	refresh  string
	claims   *Claims
	onLogout LogoutFn
	log      logrus.FieldLogger
}

// Opt is a functional option for a token store
type Opt func(*MemoryStore) error

var _ Store = (*MemoryStore)(nil)

var errNoSession = lingo.ErrNotFound.With("no session")

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewMemoryStore creates an empty in-memory token store
func NewMemoryStore(opts ...Opt) (*MemoryStore, error) {
	s := new(MemoryStore)
	s.log = discard()
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithLogout sets the function called after the session has been cleared,
// which should send the user back to the login flow.
func WithLogout(fn LogoutFn) Opt {
	return func(s *MemoryStore) error {
		if fn == nil {
			return lingo.ErrBadParameter.With("logout function is required")
		}
		s.onLogout = fn
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Opt {
	return func(s *MemoryStore) error {
		if log == nil {
			return lingo.ErrBadParameter.With("logger is required")
		}
		s.log = log
		return nil
	}
}

// WithTokens seeds the store with an existing session
func WithTokens(access, refresh string) Opt {
	return func(s *MemoryStore) error {
		return s.SetTokens(access, refresh)
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (s *MemoryStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// SetTokens replaces both tokens. Access tokens which are JWTs have their
// claims decoded, so that the user and expiry are known; opaque tokens
// are stored without claims.
func (s *MemoryStore) SetTokens(access, refresh string) error {
	if access == "" {
		return lingo.ErrBadParameter.With("access token is required")
	}
	claims, err := ParseClaims(access)
	if err != nil {
		s.log.WithError(err).Debug("access token has no readable claims")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh, s.claims = access, refresh, claims
	return nil
}

// Logout clears the session and calls the logout function, if set
func (s *MemoryStore) Logout(reason string) {
	s.mu.Lock()
	s.access, s.refresh, s.claims = "", "", nil
	fn := s.onLogout
	s.mu.Unlock()

	s.log.WithField("reason", reason).Warn("logged out")
	if fn != nil {
		fn(reason)
	}
}

// Claims returns the decoded claims of the access token, or nil
func (s *MemoryStore) Claims() *Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims
}

// Token returns the session as an oauth2 token, or nil if there is no
// session
func (s *MemoryStore) Token() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.access == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.access,
		RefreshToken: s.refresh,
		TokenType:    "Bearer",
		Expiry:       s.claims.Expiry(),
	}
}

// IsNoSession returns true if the error indicates there are no tokens
func IsNoSession(err error) bool {
	return errors.Is(err, errNoSession)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func discard() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
