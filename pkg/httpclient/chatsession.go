package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateChatSession starts a free chat session. The time zone defaults to
// schema.DefaultTimeZone.
func (c *Client) CreateChatSession(ctx context.Context, timeZone string) (*schema.ChatSession, error) {
	if timeZone == "" {
		timeZone = schema.DefaultTimeZone
	}
	session, err := call[schema.ChatSession](ctx, c, http.MethodPost, schema.ChatSessionRequest{UserTimeZoneID: timeZone}, nil, "ChatSession", "GenerateChatSession")
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListChatSessions returns the free chat sessions of the user
func (c *Client) ListChatSessions(ctx context.Context) ([]schema.ChatSession, error) {
	return call[[]schema.ChatSession](ctx, c, http.MethodGet, nil, nil, "ChatSession", "GetChatSessionList")
}

// DeleteChatSession removes a chat session and its history
func (c *Client) DeleteChatSession(ctx context.Context, id schema.ID) error {
	if id == "" {
		return lingo.ErrBadParameter.With("session id is required")
	}
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, nil, nil, "ChatSession", "DeleteChatData", url.PathEscape(id.String()))
	return err
}

// Chat sends a message to a chat session and waits for the complete answer
func (c *Client) Chat(ctx context.Context, req schema.ChatRequest) (*schema.ChatResponse, error) {
	if req.ChatSessionID == "" {
		return nil, lingo.ErrBadParameter.With("session id is required")
	} else if req.Message == "" {
		return nil, lingo.ErrBadParameter.With("message is required")
	}
	response, err := call[schema.ChatResponse](ctx, c, http.MethodPost, req, nil, "ChatSession", "Chat")
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ChatHistory returns the messages of a chat session
func (c *Client) ChatHistory(ctx context.Context, id schema.ID) (*schema.ChatHistory, error) {
	if id == "" {
		return nil, lingo.ErrBadParameter.With("session id is required")
	}
	history, err := call[schema.ChatHistory](ctx, c, http.MethodGet, nil, nil, "ChatSession", "GetChatHistoryBySessionId", url.PathEscape(id.String()))
	if err != nil {
		return nil, err
	}
	return &history, nil
}
