package schema

import (
	"fmt"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Chunk is one decoded frame of a streaming response. A chunk with a
// non-nil Error is the last chunk of a stream attempt.
type Chunk struct {
	Content  string      `json:"content"`
	Finished bool        `json:"finished,omitempty"`
	Error    *ChunkError `json:"error,omitempty"`
}

// ChunkError is the error embedded in a chunk by the server, or synthesised
// by the client when a frame cannot be decoded.
type ChunkError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StreamResult is the aggregate of a streaming call: the concatenated
// content of every chunk, in arrival order.
type StreamResult struct {
	IsSuccess bool       `json:"isSuccess"`
	Message   *string    `json:"message"`
	Data      StreamData `json:"data"`
}

type StreamData struct {
	Response      string `json:"response"`
	ChatSessionID ID     `json:"chat_session_id"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Every frame on the wire is prefixed with this marker
	FramePrefix = "data: "

	// Frames are separated by a blank line
	FrameSeparator = "\n\n"

	// Code and message of the chunk synthesised for an undecodable frame
	ParseErrorCode    = 500
	ParseErrorMessage = "stream data parse error"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewParseErrorChunk returns the chunk which replaces a frame which could
// not be decoded.
func NewParseErrorChunk() Chunk {
	return Chunk{Error: &ChunkError{Code: ParseErrorCode, Message: ParseErrorMessage}}
}

// NewStreamSuccess returns a successful result with the aggregated response.
func NewStreamSuccess(response string, session ID) *StreamResult {
	return &StreamResult{
		IsSuccess: true,
		Data:      StreamData{Response: response, ChatSessionID: session},
	}
}

// NewStreamFailure returns an unsuccessful result. When code is non-zero
// it prefixes the message as "[code] message".
func NewStreamFailure(message string, code int, session ID) *StreamResult {
	if code != 0 {
		message = fmt.Sprintf("[%d] %s", code, message)
	}
	return &StreamResult{
		Message: &message,
		Data:    StreamData{ChatSessionID: session},
	}
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c Chunk) String() string {
	return Stringify(c)
}

func (r StreamResult) String() string {
	return Stringify(r)
}

///////////////////////////////////////////////////////////////////////////////
// ERROR

func (e *ChunkError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *ChunkError) Unwrap() error {
	if e.Code == ParseErrorCode && e.Message == ParseErrorMessage {
		return lingo.ErrProtocol
	}
	return lingo.ErrStream
}
