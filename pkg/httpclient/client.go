package httpclient

import (
	"errors"
	"fmt"
	"io"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	lingo "github.com/mutablelogic/go-lingo"
	auth "github.com/mutablelogic/go-lingo/pkg/auth"
	token "github.com/mutablelogic/go-lingo/pkg/token"
	version "github.com/mutablelogic/go-lingo/pkg/version"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	logrus "github.com/sirupsen/logrus"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client is an authenticated client for the learning API. Requests carry
// the access token from the token store, and a request rejected with 401
// is retried once after the token has been refreshed.
type Client struct {
	*client.Client
	endpoint string
	store    token.Store
	auth     *auth.Coordinator
	log      logrus.FieldLogger
	tracer   trace.Tracer
}

var _ auth.Refresher = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client for the API at url, e.g.
// "https://api.example.com/api", which reads and writes the session in
// store.
func New(url string, store token.Store, opts ...Opt) (*Client, error) {
	if url == "" {
		return nil, lingo.ErrBadParameter.With("url is required")
	} else if store == nil {
		return nil, lingo.ErrBadParameter.With("token store is required")
	}

	o := newOpts()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	// Create the underlying client
	clientOpts := append([]client.ClientOpt{}, o.client...)
	clientOpts = append(clientOpts, client.OptEndpoint(url), client.OptUserAgent(version.UserAgent()))
	if o.tracer != nil {
		clientOpts = append(clientOpts, client.OptTracer(o.tracer))
	}
	base, err := client.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	c := &Client{
		Client:   base,
		endpoint: strings.TrimSuffix(url, "/"),
		store:    store,
		log:      o.log,
		tracer:   o.tracer,
	}

	// Share a coordinator, or create one for this client
	if o.coordinator != nil {
		c.auth = o.coordinator
	} else if coordinator, err := auth.New(store, c,
		auth.WithCooldown(o.cooldown),
		auth.WithLogger(o.log),
		auth.WithTracer(o.tracer),
	); err != nil {
		return nil, err
	} else {
		c.auth = coordinator
	}

	return c, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Endpoint returns the base URL of the API
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Store returns the token store which holds the session
func (c *Client) Store() token.Store {
	return c.store
}

// Coordinator returns the refresh coordinator, which can be shared with
// other clients of the same session
func (c *Client) Coordinator() *auth.Coordinator {
	return c.auth
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c *Client) bearer(access string) string {
	token := client.Token{Scheme: client.Bearer, Value: access}
	return token.String()
}

// httpStatus returns the status code of an HTTP error. A JSON error body
// whose code matches the status arrives as httpresponse.ErrResponse,
// anything else as httpresponse.Err.
func httpStatus(err error) (int, bool) {
	var httpErr httpresponse.Err
	var httpResponse httpresponse.ErrResponse
	switch {
	case errors.As(err, &httpErr):
		return int(httpErr), true
	case errors.As(err, &httpResponse) && httpResponse.Code != 0:
		return httpResponse.Code, true
	default:
		return 0, false
	}
}

// isHTTPStatus reports whether err is an HTTP error with the given status
func isHTTPStatus(err error, code int) bool {
	status, ok := httpStatus(err)
	return ok && status == code
}

// httpError returns HTTP errors as httpresponse.Err, so callers match one
// type whatever the shape of the error body
func httpError(err error) error {
	var httpResponse httpresponse.ErrResponse
	if !errors.As(err, &httpResponse) || httpResponse.Code == 0 {
		return err
	} else if httpResponse.Reason == "" {
		return httpresponse.Err(httpResponse.Code)
	} else {
		return httpresponse.Err(httpResponse.Code).With(httpResponse.Reason)
	}
}

func discard() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// cancelled wraps a context error, so that it matches both
// lingo.ErrCancelled and the context error
func cancelled(err error) error {
	return fmt.Errorf("%w: %w", lingo.ErrCancelled, err)
}
