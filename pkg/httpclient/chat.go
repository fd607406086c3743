package httpclient

import (
	"context"
	"net/http"
	"strconv"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Streaming endpoints
const (
	EndpointChatStream      = "Chat/ChatStream"
	EndpointSummaryStream   = "Chat/SummaryStream"
	EndpointSceneChatStream = "Chat/SceneChatStream"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - SCENE CHAT

// CreateSceneChatSession starts a role-play session for a scene
func (c *Client) CreateSceneChatSession(ctx context.Context, req schema.ChatSessionRequest) (*schema.ChatSession, error) {
	if req.UserTimeZoneID == "" {
		req.UserTimeZoneID = schema.DefaultTimeZone
	}
	session, err := call[schema.ChatSession](ctx, c, http.MethodPost, req, nil, "Chat", "GenerateChatSession")
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSceneChatSessions returns the role-play sessions of the user
func (c *Client) ListSceneChatSessions(ctx context.Context) ([]schema.ChatSession, error) {
	return call[[]schema.ChatSession](ctx, c, http.MethodGet, nil, nil, "Chat", "GetSceneChatSessionList")
}

// SceneChatStream sends a message within a role-play session and streams
// the reply
func (c *Client) SceneChatStream(ctx context.Context, req schema.SceneChatRequest, fn ChunkFn) (*schema.StreamResult, error) {
	if req.Message == "" {
		return nil, lingo.ErrBadParameter.With("message is required")
	}
	return c.Stream(ctx, EndpointSceneChatStream, req, fn)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - ARTICLE CHAT

// CreateRagChatSession starts a session for questions about an article
func (c *Client) CreateRagChatSession(ctx context.Context, article uint64) (*schema.ChatSession, error) {
	if article == 0 {
		return nil, lingo.ErrBadParameter.With("article id is required")
	}
	session, err := call[schema.ChatSession](ctx, c, http.MethodPost, nil, nil, "Chat", "GenerateRagChatSession", strconv.FormatUint(article, 10))
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListRagChatSessions returns the sessions for an article
func (c *Client) ListRagChatSessions(ctx context.Context, article uint64) ([]schema.ChatSession, error) {
	if article == 0 {
		return nil, lingo.ErrBadParameter.With("article id is required")
	}
	return call[[]schema.ChatSession](ctx, c, http.MethodGet, nil, nil, "Chat", "GetRagChatSessionListByArticleId", strconv.FormatUint(article, 10))
}

// RagChatStream asks a question about an article and streams the answer.
// The collection defaults to schema.DefaultCollection.
func (c *Client) RagChatStream(ctx context.Context, req schema.RagChatRequest, fn ChunkFn) (*schema.StreamResult, error) {
	if req.Message == "" {
		return nil, lingo.ErrBadParameter.With("message is required")
	}
	if req.CollectionName == "" {
		req.CollectionName = schema.DefaultCollection
	}
	return c.Stream(ctx, EndpointChatStream, req, fn)
}

// SummaryStream streams a summary of an article
func (c *Client) SummaryStream(ctx context.Context, req schema.SummaryRequest, fn ChunkFn) (*schema.StreamResult, error) {
	if req.ArticleID == 0 {
		return nil, lingo.ErrBadParameter.With("article id is required")
	}
	if req.CollectionName == "" {
		req.CollectionName = schema.DefaultCollection
	}
	return c.Stream(ctx, EndpointSummaryStream, req, fn)
}
