package auth

import (
	"io"
	"time"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	logrus "github.com/sirupsen/logrus"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for the coordinator
type Opt func(*Coordinator) error

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithCooldown sets the minimum interval between refresh attempts
func WithCooldown(d time.Duration) Opt {
	return func(c *Coordinator) error {
		if d < 0 {
			return lingo.ErrBadParameter.With("cooldown must not be negative")
		}
		c.cooldown = d
		return nil
	}
}

// WithClock replaces the clock used for the cooldown
func WithClock(now func() time.Time) Opt {
	return func(c *Coordinator) error {
		if now == nil {
			return lingo.ErrBadParameter.With("clock is required")
		}
		c.now = now
		return nil
	}
}

func WithLogger(log logrus.FieldLogger) Opt {
	return func(c *Coordinator) error {
		if log == nil {
			return lingo.ErrBadParameter.With("logger is required")
		}
		c.log = log
		return nil
	}
}

func WithTracer(tracer trace.Tracer) Opt {
	return func(c *Coordinator) error {
		c.tracer = tracer
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func discard() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
