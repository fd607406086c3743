package httpclient

import (
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	lingo "github.com/mutablelogic/go-lingo"
	auth "github.com/mutablelogic/go-lingo/pkg/auth"
	logrus "github.com/sirupsen/logrus"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for New
type Opt func(*opts) error

type opts struct {
	client      []client.ClientOpt
	coordinator *auth.Coordinator
	cooldown    time.Duration
	log         logrus.FieldLogger
	tracer      trace.Tracer
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newOpts() *opts {
	return &opts{
		cooldown: auth.DefaultCooldown,
		log:      discard(),
	}
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithClientOpt passes options to the underlying HTTP client, for example
// client.OptTrace or client.OptTimeout. Streaming requests do not use the
// client timeout.
func WithClientOpt(opt ...client.ClientOpt) Opt {
	return func(o *opts) error {
		o.client = append(o.client, opt...)
		return nil
	}
}

// WithCoordinator shares an existing refresh coordinator, so that clients
// of the same session never refresh concurrently
func WithCoordinator(coordinator *auth.Coordinator) Opt {
	return func(o *opts) error {
		if coordinator == nil {
			return lingo.ErrBadParameter.With("coordinator is required")
		}
		o.coordinator = coordinator
		return nil
	}
}

// WithCooldown sets the minimum interval between token refreshes. It is
// ignored when a coordinator is shared.
func WithCooldown(d time.Duration) Opt {
	return func(o *opts) error {
		if d < 0 {
			return lingo.ErrBadParameter.With("cooldown must not be negative")
		}
		o.cooldown = d
		return nil
	}
}

func WithLogger(log logrus.FieldLogger) Opt {
	return func(o *opts) error {
		if log == nil {
			return lingo.ErrBadParameter.With("logger is required")
		}
		o.log = log
		return nil
	}
}

func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) error {
		o.tracer = tracer
		return nil
	}
}
