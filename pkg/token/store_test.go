package token_test

import (
	"sync"
	"testing"

	// Packages
	token "github.com/mutablelogic/go-lingo/pkg/token"
	assert "github.com/stretchr/testify/assert"
)

// storeTests defines shared behavioural tests for any Store implementation.
// The constructor is called with a logout function which records reasons.
var storeTests = []struct {
	Name string
	Fn   func(t *testing.T, s token.Store, reasons func() []string)
}{{
	Name: "Empty",
	Fn: func(t *testing.T, s token.Store, _ func() []string) {
		assert := assert.New(t)
		assert.Empty(s.AccessToken())
		assert.Empty(s.RefreshToken())
	},
}, {
	Name: "SetTokens",
	Fn: func(t *testing.T, s token.Store, _ func() []string) {
		assert := assert.New(t)
		assert.NoError(s.SetTokens("access-1", "refresh-1"))
		assert.Equal("access-1", s.AccessToken())
		assert.Equal("refresh-1", s.RefreshToken())

		assert.NoError(s.SetTokens("access-2", "refresh-2"))
		assert.Equal("access-2", s.AccessToken())
		assert.Equal("refresh-2", s.RefreshToken())
	},
}, {
	Name: "SetTokensEmptyAccess",
	Fn: func(t *testing.T, s token.Store, _ func() []string) {
		assert := assert.New(t)
		assert.NoError(s.SetTokens("access-1", "refresh-1"))
		assert.Error(s.SetTokens("", "refresh-2"))
		assert.Equal("access-1", s.AccessToken())
	},
}, {
	Name: "SetTokensWithoutRefresh",
	Fn: func(t *testing.T, s token.Store, _ func() []string) {
		assert := assert.New(t)
		assert.NoError(s.SetTokens("access-1", ""))
		assert.Equal("access-1", s.AccessToken())
		assert.Empty(s.RefreshToken())
	},
}, {
	Name: "Logout",
	Fn: func(t *testing.T, s token.Store, reasons func() []string) {
		assert := assert.New(t)
		assert.NoError(s.SetTokens("access-1", "refresh-1"))
		s.Logout(token.ReasonRefreshError)
		assert.Empty(s.AccessToken())
		assert.Empty(s.RefreshToken())
		assert.Equal([]string{token.ReasonRefreshError}, reasons())
	},
}, {
	Name: "Source",
	Fn: func(t *testing.T, s token.Store, _ func() []string) {
		assert := assert.New(t)
		src := token.Source(s)

		_, err := src.Token()
		assert.True(token.IsNoSession(err))

		assert.NoError(s.SetTokens("access-1", "refresh-1"))
		tok, err := src.Token()
		if assert.NoError(err) {
			assert.Equal("access-1", tok.AccessToken)
			assert.Equal("refresh-1", tok.RefreshToken)
			assert.Equal("Bearer", tok.Type())
		}
	},
}, {
	Name: "Concurrent",
	Fn: func(t *testing.T, s token.Store, _ func() []string) {
		assert := assert.New(t)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				assert.NoError(s.SetTokens("access", "refresh"))
			}()
			go func() {
				defer wg.Done()
				_ = s.AccessToken()
			}()
		}
		wg.Wait()
		assert.Equal("access", s.AccessToken())
	},
}}

// recorder returns a logout function and an accessor for the reasons
// it was called with
func recorder() (token.LogoutFn, func() []string) {
	var mu sync.Mutex
	var reasons []string
	return func(reason string) {
			mu.Lock()
			defer mu.Unlock()
			reasons = append(reasons, reason)
		}, func() []string {
			mu.Lock()
			defer mu.Unlock()
			return append([]string(nil), reasons...)
		}
}
