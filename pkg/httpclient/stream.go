package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	// Packages
	uuid "github.com/google/uuid"
	client "github.com/mutablelogic/go-client"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	logrus "github.com/sirupsen/logrus"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// ChunkFn receives each chunk of a stream, in the order they arrive
type ChunkFn func(schema.Chunk)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	requestErrorMessage = "request error"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Stream posts a request to a streaming endpoint and reads the response as
// a sequence of chunks, each of which is passed to fn (which may be nil).
// The content of the chunks is concatenated into the result.
//
// The stream ends early when a chunk carries an error, when a frame cannot
// be decoded, or when ctx is cancelled. In each case an unsuccessful result
// is returned together with an error: a *schema.ChunkError, or an error
// matching lingo.ErrCancelled, lingo.ErrTransport or the refresh errors.
// Chunks delivered before the end are not withdrawn.
func (c *Client) Stream(ctx context.Context, endpoint string, request any, fn ChunkFn) (result *schema.StreamResult, err error) {
	ctx, endSpan := otel.StartSpan(c.tracer, ctx, "Stream",
		attribute.String("endpoint", endpoint),
	)
	defer func() { endSpan(err) }()

	body, err := json.Marshal(request)
	if err != nil {
		return schema.NewStreamFailure(err.Error(), 0, ""), lingo.ErrBadParameter.Withf("request body: %v", err)
	}
	session := sessionID(body)
	requestID := uuid.NewString()
	log := c.log.WithFields(logrus.Fields{"request_id": requestID, "endpoint": endpoint})

	retried := false
	for {
		if err := ctx.Err(); err != nil {
			return cancelledResult(session), cancelled(err)
		}

		access := c.store.AccessToken()
		response, err := c.post(ctx, endpoint, body, access, requestID)
		if err != nil {
			if ctx.Err() != nil {
				return cancelledResult(session), cancelled(ctx.Err())
			}
			return schema.NewStreamFailure(err.Error(), 0, session), fmt.Errorf("%w: %w", lingo.ErrTransport, err)
		}

		switch {
		case response.StatusCode == http.StatusUnauthorized && !retried:
			response.Body.Close()
			retried = true
			log.Debug("access token rejected, refreshing")
			if err := c.auth.Refresh(ctx, access); lingo.IsCancelled(err) {
				return cancelledResult(session), err
			} else if err != nil {
				return schema.NewStreamFailure(err.Error(), 0, session), err
			}
			continue
		case response.StatusCode < 200 || response.StatusCode > 299:
			response.Body.Close()
			log.WithField("status", response.StatusCode).Warn("stream request failed")
			return schema.NewStreamFailure(requestErrorMessage, response.StatusCode, session), fmt.Errorf("%w: %w", lingo.ErrTransport, httpresponse.Err(response.StatusCode))
		}

		result, err := c.read(ctx, response.Body, fn, session)
		response.Body.Close()
		if err != nil {
			log.WithError(err).Debug("stream ended early")
		}
		return result, err
	}
}

// StreamSeq returns the chunks of a stream as an iterator. When the stream
// ends with an error, it is yielded last with a zero chunk. Breaking out of
// the loop cancels the request.
func (c *Client) StreamSeq(ctx context.Context, endpoint string, request any) iter.Seq2[schema.Chunk, error] {
	return func(yield func(schema.Chunk, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stopped := false
		_, err := c.Stream(ctx, endpoint, request, func(chunk schema.Chunk) {
			if stopped {
				return
			}
			if !yield(chunk, nil) {
				stopped = true
				cancel()
			}
		})
		if err != nil && !stopped {
			yield(schema.Chunk{}, err)
		}
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// post sends a single attempt of a streaming request. The underlying
// http.Client is used directly, so that a long stream has no timeout other
// than ctx.
func (c *Client) post(ctx context.Context, endpoint string, body []byte, access, requestID string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/"+strings.TrimPrefix(endpoint, "/"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", client.ContentTypeJson)
	req.Header.Set("Accept", client.ContentTypeTextStream)
	req.Header.Set(headerRequestID, requestID)
	if access != "" {
		req.Header.Set(headerAuthorization, c.bearer(access))
	}
	return c.Client.Client.Do(req)
}

// read decodes frames from the body until it ends, a chunk carries an
// error or ctx is cancelled
func (c *Client) read(ctx context.Context, body io.Reader, fn ChunkFn, session schema.ID) (*schema.StreamResult, error) {
	var response strings.Builder
	var failed *schema.ChunkError

	err := client.NewTextStream().Decode(body, func(event client.TextStreamEvent) error {
		if ctx.Err() != nil {
			return io.EOF
		}

		// Frames without data are ignored
		if event.Data == "" {
			return nil
		}

		var chunk schema.Chunk
		if err := event.Json(&chunk); err != nil {
			chunk = schema.NewParseErrorChunk()
		}
		response.WriteString(chunk.Content)
		if fn != nil {
			fn(chunk)
		}
		if chunk.Error != nil {
			failed = chunk.Error
			return io.EOF
		}
		return nil
	})

	switch {
	case failed != nil:
		return schema.NewStreamFailure(failed.Message, failed.Code, session), failed
	case ctx.Err() != nil:
		return cancelledResult(session), cancelled(ctx.Err())
	case err != nil && !errors.Is(err, io.EOF):
		return schema.NewStreamFailure(err.Error(), 0, session), fmt.Errorf("%w: %w", lingo.ErrTransport, err)
	}
	return schema.NewStreamSuccess(response.String(), session), nil
}

// sessionID returns the chat session of a request body, or empty
func sessionID(body []byte) schema.ID {
	var request struct {
		ChatSessionID schema.ID `json:"chat_session_id"`
	}
	if err := json.Unmarshal(body, &request); err != nil {
		return ""
	}
	return request.ChatSessionID
}

func cancelledResult(session schema.ID) *schema.StreamResult {
	return schema.NewStreamFailure(lingo.ErrCancelled.Error(), 0, session)
}
