package token

import (
	// Packages
	oauth2 "golang.org/x/oauth2"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Store holds the access and refresh tokens of the current session.
// Implementations must be safe for concurrent use.
type Store interface {
	// AccessToken returns the current access token, or empty string
	AccessToken() string

	// RefreshToken returns the current refresh token, or empty string
	RefreshToken() string

	// SetTokens atomically replaces both tokens
	SetTokens(access, refresh string) error

	// Logout clears the session and hands control back to the login flow
	Logout(reason string)
}

// LogoutFn is called after a store has cleared its session, with the
// reason for the logout.
type LogoutFn func(reason string)

// Logout reasons
const (
	ReasonRefreshTokenMissing = "REFRESH_TOKEN_MISSING"
	ReasonRefreshError        = "REFRESH_ERROR"
	ReasonUser                = "USER"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Source returns an oauth2.TokenSource which reads the current bearer token
// from the store. It returns an error when there is no session.
func Source(store Store) oauth2.TokenSource {
	return tokenSource{store}
}

type tokenSource struct {
	Store
}

func (s tokenSource) Token() (*oauth2.Token, error) {
	if t, ok := s.Store.(interface{ Token() *oauth2.Token }); ok {
		if token := t.Token(); token != nil {
			return token, nil
		}
	} else if access := s.AccessToken(); access != "" {
		return &oauth2.Token{AccessToken: access, RefreshToken: s.RefreshToken(), TokenType: "Bearer"}, nil
	}
	return nil, errNoSession
}
