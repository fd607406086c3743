package httpclient

import (
	"context"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Assist selects what the English assistant does with a word
type Assist string

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	AssistExplain   Assist = "EnglishAssistant/WordAssistan"
	AssistTips      Assist = "EnglishAssistant/WordTips"
	AssistTranslate Assist = "EnglishAssistant/WordTranslate"

	EndpointTextAssistant = "EnglishAssistant/TextLinguisticAssistant"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WordAssistantStream streams an explanation, usage tips or a translation
// of a word
func (c *Client) WordAssistantStream(ctx context.Context, assist Assist, word string, fn ChunkFn) (*schema.StreamResult, error) {
	switch assist {
	case AssistExplain, AssistTips, AssistTranslate:
	default:
		return nil, lingo.ErrBadParameter.Withf("unknown assistant %q", assist)
	}
	if word == "" {
		return nil, lingo.ErrBadParameter.With("word is required")
	}
	return c.Stream(ctx, string(assist), schema.WordAssistantRequest{Word: word}, fn)
}

// TextAssistantStream streams a linguistic analysis of a passage of text
func (c *Client) TextAssistantStream(ctx context.Context, text string, fn ChunkFn) (*schema.StreamResult, error) {
	if text == "" {
		return nil, lingo.ErrBadParameter.With("text is required")
	}
	return c.Stream(ctx, EndpointTextAssistant, schema.TextAssistantRequest{Text: text}, fn)
}
