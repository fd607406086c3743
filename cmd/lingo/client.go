package main

import (
	"os"

	// Packages
	client "github.com/mutablelogic/go-client"
	lingo "github.com/mutablelogic/go-lingo"
	httpclient "github.com/mutablelogic/go-lingo/pkg/httpclient"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	token "github.com/mutablelogic/go-lingo/pkg/token"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Store returns the encrypted session store for the configured endpoint
func (g *Globals) Store() (*token.FileStore, error) {
	if g.Passphrase == "" {
		return nil, lingo.ErrBadParameter.With("a passphrase is required (set LINGO_PASSPHRASE)")
	}
	dir := g.TokenDir
	if dir == "" {
		if config, err := configDir(appName); err != nil {
			return nil, err
		} else {
			dir = config
		}
	}
	return token.NewFileStore(dir, g.Endpoint, g.Passphrase,
		token.WithLogger(g.log),
		token.WithLogout(g.logout),
	)
}

// Client returns a client for the configured endpoint, which reads and
// writes the saved session
func (g *Globals) Client() (*httpclient.Client, error) {
	store, err := g.Store()
	if err != nil {
		return nil, err
	}

	opts := []httpclient.Opt{
		httpclient.WithLogger(g.log),
	}
	if g.Debug || g.Verbose {
		opts = append(opts, httpclient.WithClientOpt(client.OptTrace(os.Stderr, g.Verbose)))
	}
	return httpclient.New(g.Endpoint, store, opts...)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// logout forgets the remembered sessions when the saved session ends
func (g *Globals) logout(reason string) {
	if reason != token.ReasonUser {
		g.out.Status("Session ended (%s), run login to continue", reason)
	}
	if err := g.defaults.Clear(); err != nil {
		g.log.WithError(err).Warn("clear defaults")
	}
}

// session returns id, or the session remembered under key when id is empty
func (g *Globals) session(id schema.ID, key string) (schema.ID, error) {
	if id != "" {
		return id, nil
	} else if id := g.defaults.Get(key); id != "" {
		return schema.ID(id), nil
	}
	return "", lingo.ErrBadParameter.With("no session, pass --session or create one with --new")
}

// stream returns a chunk callback which writes to the output
func (g *Globals) stream() httpclient.ChunkFn {
	return func(chunk schema.Chunk) {
		if err := g.out.StreamChunk(chunk); err != nil {
			g.log.WithError(err).Debug("write chunk")
		}
	}
}

// finish ends a streamed reply. A cancelled stream is not an error.
func (g *Globals) finish(result *schema.StreamResult, err error) error {
	if err := g.out.StreamEnd(result); err != nil {
		return err
	}
	if lingo.IsCancelled(err) {
		return g.out.Status("Cancelled")
	}
	return err
}
