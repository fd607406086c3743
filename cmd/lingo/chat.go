package main

import (
	"fmt"
	"strings"

	// Packages
	httpclient "github.com/mutablelogic/go-lingo/pkg/httpclient"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	table "github.com/mutablelogic/go-lingo/pkg/ui/table"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ChatCommands struct {
	ListSessions  ListSessionsCommand  `cmd:"" name:"sessions" help:"List chat sessions." group:"CHAT"`
	CreateSession CreateSessionCommand `cmd:"" name:"create-session" help:"Create a chat session and make it the default." group:"CHAT"`
	DeleteSession DeleteSessionCommand `cmd:"" name:"delete-session" help:"Delete a chat session." group:"CHAT"`
	History       HistoryCommand       `cmd:"" name:"history" help:"Show the messages of a chat session." group:"CHAT"`
	Chat          ChatCommand          `cmd:"" name:"chat" help:"Send a message to a chat session." group:"CHAT"`
	Scene         SceneCommand         `cmd:"" name:"scene" help:"Send a message within a role-play scene." group:"CHAT"`
	Ask           AskCommand           `cmd:"" name:"ask" help:"Ask a question about an article." group:"CHAT"`
	Summary       SummaryCommand       `cmd:"" name:"summary" help:"Summarise an article." group:"CHAT"`
}

type ListSessionsCommand struct {
	Scene   bool   `name:"scene" help:"List role-play sessions"`
	Article uint64 `name:"article" help:"List sessions about an article"`
}

type CreateSessionCommand struct {
	Scene    string `name:"scene" help:"Create a role-play session for the scene"`
	Article  uint64 `name:"article" help:"Create a session about an article"`
	TimeZone string `name:"timezone" help:"Time zone of the user" default:"${timezone}"`
}

type DeleteSessionCommand struct {
	ID schema.ID `arg:"" name:"id" help:"Session ID"`
}

type HistoryCommand struct {
	ID schema.ID `arg:"" name:"id" help:"Session ID (defaults to the current chat session)" optional:""`
}

type ChatCommand struct {
	Message []string  `arg:"" name:"message" help:"Message text"`
	Session schema.ID `name:"session" help:"Session ID (defaults to the current chat session)"`
}

type SceneCommand struct {
	Message []string  `arg:"" name:"message" help:"Message text"`
	Session schema.ID `name:"session" help:"Session ID (defaults to the current role-play session)"`
	Scene   string    `name:"scene" help:"Scene name"`
}

type AskCommand struct {
	Article  uint64    `arg:"" name:"article" help:"Article ID"`
	Question []string  `arg:"" name:"question" help:"Question text"`
	Session  schema.ID `name:"session" help:"Session ID (defaults to the current session for the article)"`
}

type SummaryCommand struct {
	Article uint64    `arg:"" name:"article" help:"Article ID"`
	Session schema.ID `name:"session" help:"Session ID (defaults to the current session for the article)"`
}

type sessionList []schema.ChatSession

type historyList []schema.ChatMessage

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListSessionsCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	var sessions []schema.ChatSession
	switch {
	case cmd.Article != 0:
		sessions, err = client.ListRagChatSessions(ctx.ctx, cmd.Article)
	case cmd.Scene:
		sessions, err = client.ListSceneChatSessions(ctx.ctx)
	default:
		sessions, err = client.ListChatSessions(ctx.ctx)
	}
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return ctx.out.Status("No sessions found")
	}
	return ctx.out.Table(sessionList(sessions))
}

func (cmd *CreateSessionCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	var session *schema.ChatSession
	var key string
	switch {
	case cmd.Article != 0:
		session, err = client.CreateRagChatSession(ctx.ctx, cmd.Article)
		key = ragKey(cmd.Article)
	case cmd.Scene != "":
		session, err = client.CreateSceneChatSession(ctx.ctx, schema.ChatSessionRequest{Scene: cmd.Scene, UserTimeZoneID: cmd.TimeZone})
		key = keySceneSession
	default:
		session, err = client.CreateChatSession(ctx.ctx, cmd.TimeZone)
		key = keyChatSession
	}
	if err != nil {
		return err
	}
	if err := ctx.defaults.Set(key, session.SessionID.String()); err != nil {
		return err
	}
	return ctx.out.Status("Created session %s %q", session.SessionID, session.SessionName)
}

func (cmd *DeleteSessionCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	if err := client.DeleteChatSession(ctx.ctx, cmd.ID); err != nil {
		return err
	}
	if ctx.defaults.Get(keyChatSession) == cmd.ID.String() {
		if err := ctx.defaults.Set(keyChatSession, ""); err != nil {
			return err
		}
	}
	return ctx.out.Status("Deleted session %s", cmd.ID)
}

func (cmd *HistoryCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	id, err := ctx.session(cmd.ID, keyChatSession)
	if err != nil {
		return err
	}
	history, err := client.ChatHistory(ctx.ctx, id)
	if err != nil {
		return err
	}
	if len(history.Response) == 0 {
		return ctx.out.Status("No messages in session %s", id)
	}
	return ctx.out.Markdown(historyList(history.Response).Markdown())
}

func (cmd *ChatCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	id, err := ctx.session(cmd.Session, keyChatSession)
	if err != nil {
		return err
	}
	response, err := client.Chat(ctx.ctx, schema.ChatRequest{
		ChatSessionID: id,
		Message:       strings.Join(cmd.Message, " "),
	})
	if err != nil {
		return err
	}
	return ctx.out.Markdown(response.Response)
}

func (cmd *SceneCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	id, err := ctx.session(cmd.Session, keySceneSession)
	if err != nil {
		return err
	}
	return ctx.finish(client.SceneChatStream(ctx.ctx, schema.SceneChatRequest{
		ChatSessionID: id,
		Message:       strings.Join(cmd.Message, " "),
		Scene:         cmd.Scene,
	}, ctx.stream()))
}

func (cmd *AskCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	id, err := ragSession(ctx, client, cmd.Article, cmd.Session)
	if err != nil {
		return err
	}
	return ctx.finish(client.RagChatStream(ctx.ctx, schema.RagChatRequest{
		ChatSessionID: id,
		Message:       strings.Join(cmd.Question, " "),
		ArticleID:     cmd.Article,
	}, ctx.stream()))
}

func (cmd *SummaryCommand) Run(ctx *Globals) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	id, err := ragSession(ctx, client, cmd.Article, cmd.Session)
	if err != nil {
		return err
	}
	return ctx.finish(client.SummaryStream(ctx.ctx, schema.SummaryRequest{
		ChatSessionID: id,
		ArticleID:     cmd.Article,
	}, ctx.stream()))
}

///////////////////////////////////////////////////////////////////////////////
// TABLES

func (l sessionList) Header() []string {
	return []string{"ID", "NAME"}
}

func (l sessionList) Len() int {
	return len(l)
}

func (l sessionList) Row(i int) []any {
	return []any{table.Bold{Value: l[i].SessionID.String()}, l[i].SessionName}
}

// Markdown returns the messages as a markdown document
func (l historyList) Markdown() string {
	var buf strings.Builder
	for i, message := range l {
		if i > 0 {
			buf.WriteString("\n\n---\n\n")
		}
		fmt.Fprintf(&buf, "**%s**", message.Role)
		if !message.Timestamp.IsZero() {
			fmt.Fprintf(&buf, " _%s_", message.Timestamp.Local().Format(table.TimeLayout))
		}
		buf.WriteString("\n\n" + message.Content)
	}
	return buf.String()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func ragKey(article uint64) string {
	return fmt.Sprintf("%s.%d", keyRagSession, article)
}

// ragSession returns the session for questions about an article, creating
// one when none has been used before
func ragSession(ctx *Globals, client *httpclient.Client, article uint64, id schema.ID) (schema.ID, error) {
	if id != "" {
		return id, nil
	} else if id := ctx.defaults.Get(ragKey(article)); id != "" {
		return schema.ID(id), nil
	}

	session, err := client.CreateRagChatSession(ctx.ctx, article)
	if err != nil {
		return "", err
	}
	return session.SessionID, ctx.defaults.Set(ragKey(article), session.SessionID.String())
}
