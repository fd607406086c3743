package httpclient

import (
	"context"
	"net/http"
	"net/url"

	// Packages
	uuid "github.com/google/uuid"
	client "github.com/mutablelogic/go-client"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	logrus "github.com/sirupsen/logrus"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-Id"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Do sends a request with a JSON body (or none, when in is nil) to the
// path under the API endpoint, and decodes the JSON response into out,
// which may be nil. When the server rejects the access token, the token
// is refreshed and the request is sent once more.
func (c *Client) Do(ctx context.Context, method string, in, out any, path ...string) error {
	return c.DoWithQuery(ctx, method, in, out, nil, path...)
}

// DoWithQuery is Do with query parameters
func (c *Client) DoWithQuery(ctx context.Context, method string, in, out any, query url.Values, path ...string) (err error) {
	ctx, endSpan := otel.StartSpan(c.tracer, ctx, "Do",
		attribute.String("method", method),
		attribute.StringSlice("path", path),
	)
	defer func() { endSpan(err) }()

	requestID := uuid.NewString()
	log := c.log.WithFields(logrus.Fields{"request_id": requestID, "method": method, "path": path})

	retried := false
	for {
		if err := ctx.Err(); err != nil {
			return cancelled(err)
		}

		access := c.store.AccessToken()
		err := c.do(ctx, method, in, out, query, access, requestID, path)
		if err == nil {
			return nil
		} else if ctx.Err() != nil {
			return cancelled(ctx.Err())
		} else if retried || !isHTTPStatus(err, http.StatusUnauthorized) {
			return err
		}

		// Refresh the token and try once more
		retried = true
		log.Debug("access token rejected, refreshing")
		if err := c.auth.Refresh(ctx, access); err != nil {
			return err
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// do makes a single attempt of a request
func (c *Client) do(ctx context.Context, method string, in, out any, query url.Values, access, requestID string, path []string) error {
	payload, err := newPayload(method, in)
	if err != nil {
		return err
	}

	opts := []client.RequestOpt{
		client.OptPath(segments(path)...),
		client.OptReqHeader(headerRequestID, requestID),
	}
	if access != "" {
		opts = append(opts, client.OptReqHeader(headerAuthorization, c.bearer(access)))
	}
	if len(query) > 0 {
		opts = append(opts, client.OptQuery(query))
	}
	return httpError(c.DoWithContext(ctx, payload, out, opts...))
}

// segments returns the path as request path segments
func segments(path []string) []any {
	result := make([]any, len(path))
	for i, segment := range path {
		result[i] = segment
	}
	return result
}

// newPayload returns the request payload for a method and body. A nil
// payload is a GET.
func newPayload(method string, in any) (client.Payload, error) {
	switch {
	case in == nil && method == http.MethodGet:
		return nil, nil
	case in == nil && method == http.MethodDelete:
		return client.MethodDelete, nil
	case in == nil:
		in = struct{}{}
	}
	payload, err := client.NewJSONRequestEx(method, in, "")
	if err != nil {
		return nil, lingo.ErrBadParameter.Withf("request body: %v", err)
	}
	return payload, nil
}

// call sends a request and unwraps the response envelope
func call[T any](ctx context.Context, c *Client, method string, in any, query url.Values, path ...string) (T, error) {
	var response schema.Envelope[T]
	if err := c.DoWithQuery(ctx, method, in, &response, query, path...); err != nil {
		var zero T
		return zero, err
	}
	return response.Result()
}
