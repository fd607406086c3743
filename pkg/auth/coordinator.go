package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	token "github.com/mutablelogic/go-lingo/pkg/token"
	logrus "github.com/sirupsen/logrus"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
	singleflight "golang.org/x/sync/singleflight"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Refresher exchanges a refresh token for a new pair of tokens. It is
// called directly, never through a path which retries on 401.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*schema.Tokens, error)
}

// Coordinator serialises token refreshes for a session. Callers which
// need a refresh while one is running wait for it and share its outcome;
// a new refresh is not started within the cooldown of the last one.
type Coordinator struct {
	store     token.Store
	refresher Refresher
	cooldown  time.Duration
	now       func() time.Time
	log       logrus.FieldLogger
	tracer    trace.Tracer

	group singleflight.Group
	mu    sync.Mutex
	last  time.Time // start of the last network refresh
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// DefaultCooldown is the minimum interval between refresh attempts
	DefaultCooldown = 5 * time.Second

	refreshKey = "refresh"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a coordinator for the session held in store
func New(store token.Store, refresher Refresher, opts ...Opt) (*Coordinator, error) {
	if store == nil {
		return nil, lingo.ErrBadParameter.With("token store is required")
	} else if refresher == nil {
		return nil, lingo.ErrBadParameter.With("refresher is required")
	}

	c := &Coordinator{
		store:     store,
		refresher: refresher,
		cooldown:  DefaultCooldown,
		now:       time.Now,
		log:       discard(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Refresh obtains a new access token, given the access token the server
// rejected (which may be empty). It returns nil once the store holds a
// token which is worth retrying with.
//
// The errors returned are lingo.ErrRefreshTokenMissing or
// lingo.ErrRefreshFailed, in which case the session has been logged out,
// lingo.ErrRateLimited, in which case the session is untouched, or
// lingo.ErrCancelled when ctx is done before the outcome is known.
func (c *Coordinator) Refresh(ctx context.Context, stale string) (err error) {
	ctx, endSpan := otel.StartSpan(c.tracer, ctx, "Refresh")
	defer func() { endSpan(err) }()

	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}

	ch := c.group.DoChan(refreshKey, func() (any, error) {
		return nil, c.refresh(ctx, stale)
	})
	select {
	case <-ctx.Done():
		// The shared attempt continues for the other callers
		return cancelled(ctx.Err())
	case result := <-ch:
		if result.Shared {
			c.log.WithField("shared", true).Debug("joined token refresh")
		}
		return result.Err
	}
}

// Cooldown returns the minimum interval between refresh attempts
func (c *Coordinator) Cooldown() time.Duration {
	return c.cooldown
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// refresh runs at most once at a time, inside the singleflight group
func (c *Coordinator) refresh(ctx context.Context, stale string) error {
	// The token was replaced after the rejected request was sent
	if current := c.store.AccessToken(); current != "" && current != stale {
		return nil
	}

	refresh := c.store.RefreshToken()
	if refresh == "" {
		c.store.Logout(token.ReasonRefreshTokenMissing)
		return lingo.ErrRefreshTokenMissing
	}

	c.mu.Lock()
	now := c.now()
	if !c.last.IsZero() {
		if elapsed := now.Sub(c.last); elapsed < c.cooldown {
			c.mu.Unlock()
			return lingo.ErrRateLimited.Withf("retry in %v", (c.cooldown - elapsed).Round(time.Millisecond))
		}
	}
	c.last = now
	c.mu.Unlock()

	// Callers may give up waiting, but the refresh itself runs to completion
	ctx, endSpan := otel.StartSpan(c.tracer, context.WithoutCancel(ctx), "RefreshToken",
		attribute.String("started", now.Format(time.RFC3339)),
	)
	err := c.exchange(ctx, refresh)
	endSpan(err)

	if err != nil {
		c.log.WithError(err).Error("token refresh failed")
		c.store.Logout(token.ReasonRefreshError)
		return fmt.Errorf("%w: %w", lingo.ErrRefreshFailed, err)
	}
	c.log.Debug("token refreshed")
	return nil
}

func (c *Coordinator) exchange(ctx context.Context, refresh string) error {
	tokens, err := c.refresher.RefreshToken(ctx, refresh)
	if err != nil {
		return err
	} else if tokens == nil || tokens.AccessToken == "" {
		return lingo.ErrBadParameter.With("no access token returned")
	}
	return c.store.SetTokens(tokens.AccessToken, tokens.RefreshToken)
}

func cancelled(err error) error {
	return fmt.Errorf("%w: %w", lingo.ErrCancelled, err)
}
