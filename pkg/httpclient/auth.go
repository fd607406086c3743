package httpclient

import (
	"context"
	"net/http"
	"net/url"

	// Packages
	client "github.com/mutablelogic/go-client"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	token "github.com/mutablelogic/go-lingo/pkg/token"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Login exchanges a user name and password for a session, which is saved
// in the token store
func (c *Client) Login(ctx context.Context, user, password string) (_ *token.Claims, err error) {
	ctx, endSpan := otel.StartSpan(c.tracer, ctx, "Login",
		attribute.String("user", user),
	)
	defer func() { endSpan(err) }()

	if user == "" {
		return nil, lingo.ErrBadParameter.With("user name is required")
	} else if password == "" {
		return nil, lingo.ErrBadParameter.With("password is required")
	}

	payload, err := client.NewJSONRequest(schema.LoginRequest{UserName: user, Password: password})
	if err != nil {
		return nil, err
	}
	var response schema.Envelope[schema.Tokens]
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("Authenticate", "Login")); err != nil {
		return nil, httpError(err)
	}
	tokens, err := response.Result()
	if err != nil {
		return nil, err
	}
	if err := c.store.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		return nil, err
	}

	// Opaque tokens have no claims
	claims, _ := token.ParseClaims(tokens.AccessToken)
	return claims, nil
}

// Logout ends the session held in the token store
func (c *Client) Logout() {
	c.store.Logout(token.ReasonUser)
}

// RefreshToken exchanges a refresh token for a new pair of tokens. It does
// not touch the token store and is not retried: use the coordinator to
// refresh the session.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*schema.Tokens, error) {
	if refreshToken == "" {
		return nil, lingo.ErrRefreshTokenMissing
	}

	payload, err := client.NewJSONRequestEx(http.MethodPost, struct{}{}, "")
	if err != nil {
		return nil, err
	}
	var response schema.Envelope[schema.Tokens]
	if err := c.DoWithContext(ctx, payload, &response,
		client.OptPath("Authenticate", "Refresh"),
		client.OptQuery(url.Values{"refreshToken": []string{refreshToken}}),
	); err != nil {
		return nil, httpError(err)
	}
	tokens, err := response.Result()
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}
