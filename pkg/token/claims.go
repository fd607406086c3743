package token

import (
	"time"

	// Packages
	jwt "github.com/golang-jwt/jwt/v5"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Claims is the payload of an access token issued by the backend
type Claims struct {
	UserName string    `json:"UserName"`
	UserID   schema.ID `json:"UserId"`
	jwt.RegisteredClaims
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ParseClaims decodes the payload of an access token. The signature is not
// verified: the client only reads the token to learn who it belongs to and
// when it expires.
func ParseClaims(access string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// Expiry returns the expiry time of the token, or the zero time if the
// token does not expire
func (c *Claims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func (c Claims) String() string {
	return schema.Stringify(c)
}
