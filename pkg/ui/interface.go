// Package ui defines how command output reaches the user.
//
// An [Output] adapts a destination (an interactive terminal, a pipe) to the
// kinds of output the commands produce: streamed replies, markdown
// documents, listings and status lines.
package ui

import (
	// Packages
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	table "github.com/mutablelogic/go-lingo/pkg/ui/table"
)

///////////////////////////////////////////////////////////////////////////////
// INTERFACES

type Output interface {
	// StreamChunk writes the content of a chunk as it arrives. Chunks
	// which carry an error are not written.
	StreamChunk(chunk schema.Chunk) error

	// StreamEnd finishes a streamed reply, given the aggregate returned
	// when the stream completed.
	StreamEnd(result *schema.StreamResult) error

	// Markdown writes a markdown document, rendered where the destination
	// supports it.
	Markdown(text string) error

	// Table writes a listing
	Table(data table.Data) error

	// Status writes an informational line
	Status(format string, args ...any) error

	// Error writes an error line
	Error(err error) error
}
