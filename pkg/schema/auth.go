package schema

///////////////////////////////////////////////////////////////////////////////
// TYPES

// LoginRequest is the body of the login endpoint
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// Tokens is the payload returned by the login and refresh endpoints
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

// String redacts the token values
func (t Tokens) String() string {
	redact := func(v string) string {
		if v == "" {
			return ""
		}
		return "***"
	}
	return Stringify(Tokens{AccessToken: redact(t.AccessToken), RefreshToken: redact(t.RefreshToken)})
}
