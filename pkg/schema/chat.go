package schema

import "time"

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ChatSession struct {
	SessionID   ID     `json:"sessionId"`
	SessionName string `json:"sessionName"`
}

// ChatSessionRequest creates a scene chat session
type ChatSessionRequest struct {
	Scene          string `json:"scene,omitempty"`
	UserTimeZoneID string `json:"userTimeZoneId,omitempty"`
}

// ChatRequest is a single message within a chat session
type ChatRequest struct {
	ChatSessionID  ID     `json:"chat_session_id"`
	UserID         ID     `json:"user_id,omitempty"`
	Message        string `json:"message"`
	CollectionName string `json:"collection_name,omitempty"`
	ArticleID      uint64 `json:"article_id,omitempty"`
}

// RagChatRequest is a message answered from an article collection
type RagChatRequest struct {
	ChatSessionID  ID     `json:"chat_session_id"`
	UserID         ID     `json:"user_id,omitempty"`
	Message        string `json:"message"`
	CollectionName string `json:"collection_name"`
	ArticleID      uint64 `json:"article_id"`
}

// SummaryRequest requests a summary of an article
type SummaryRequest struct {
	ChatSessionID  ID     `json:"chat_session_id"`
	UserID         ID     `json:"user_id,omitempty"`
	CollectionName string `json:"collection_name"`
	ArticleID      uint64 `json:"article_id"`
}

// SceneChatRequest is a message within a role-play scene
type SceneChatRequest struct {
	ChatSessionID ID     `json:"chat_session_id"`
	UserID        ID     `json:"user_id,omitempty"`
	Message       string `json:"message"`
	Scene         string `json:"scene,omitempty"`
}

// ChatResponse is the non-streamed answer to a ChatRequest
type ChatResponse struct {
	Response      string `json:"response"`
	ChatSessionID ID     `json:"chat_session_id"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatHistory struct {
	Response      []ChatMessage `json:"response"`
	ChatSessionID ID            `json:"chat_session_id"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// The default vector collection for articles
	DefaultCollection = "articles"

	// The default time zone for new chat sessions
	DefaultTimeZone = "Asia/Hong_Kong"
)

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s ChatSession) String() string {
	return Stringify(s)
}

func (h ChatHistory) String() string {
	return Stringify(h)
}
