package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// AddWord adds a word to the review list of the user
func (c *Client) AddWord(ctx context.Context, word string) error {
	if word == "" {
		return lingo.ErrBadParameter.With("word is required")
	}
	_, err := call[json.RawMessage](ctx, c, http.MethodPost, schema.WordRequest{WordText: word}, nil, "Word", "AddWord")
	return err
}

// ListWords returns a page of the review list
func (c *Client) ListWords(ctx context.Context, params schema.SearchParams) (*schema.Paged[schema.Word], error) {
	page, err := call[schema.Paged[schema.Word]](ctx, c, http.MethodGet, nil, params.Values(), "Word", "GetWordList")
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ReviewWord marks a word as reviewed, which schedules the next review
func (c *Client) ReviewWord(ctx context.Context, id uint64) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodPatch, nil, nil, "Word", "UpdateWordReviewStatus", strconv.FormatUint(id, 10))
	return err
}

// GetWord returns a word from the review list
func (c *Client) GetWord(ctx context.Context, id uint64) (*schema.Word, error) {
	word, err := call[schema.Word](ctx, c, http.MethodGet, nil, nil, "Word", "GetWordById", strconv.FormatUint(id, 10))
	if err != nil {
		return nil, err
	}
	return &word, nil
}

// RemoveWord removes a word from the review list
func (c *Client) RemoveWord(ctx context.Context, id uint64) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, nil, nil, "Word", "RemoveWordById", strconv.FormatUint(id, 10))
	return err
}

// RemoveWordByText removes a word from the review list by its text
func (c *Client) RemoveWordByText(ctx context.Context, word string) error {
	if word == "" {
		return lingo.ErrBadParameter.With("word is required")
	}
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, nil, url.Values{"word": []string{word}}, "Word", "RemoveWordByText")
	return err
}

// WordExists reports whether a word is on the review list
func (c *Client) WordExists(ctx context.Context, id uint64) (bool, error) {
	return call[bool](ctx, c, http.MethodGet, nil, nil, "Word", "CheckUserWordExistsById", strconv.FormatUint(id, 10))
}

// WordExistsByText reports whether a word is on the review list, by its text
func (c *Client) WordExistsByText(ctx context.Context, word string) (bool, error) {
	if word == "" {
		return false, lingo.ErrBadParameter.With("word is required")
	}
	return call[bool](ctx, c, http.MethodGet, nil, url.Values{"word": []string{word}}, "Word", "CheckUserWordExistsByText")
}

// NextReviewWord returns the word due for review after the given word
func (c *Client) NextReviewWord(ctx context.Context, id uint64) (*schema.Word, error) {
	word, err := call[schema.Word](ctx, c, http.MethodGet, nil, nil, "Word", "GetNextReviewWord", strconv.FormatUint(id, 10))
	if err != nil {
		return nil, err
	}
	return &word, nil
}

// ReviewWordCount returns the number of words due for review
func (c *Client) ReviewWordCount(ctx context.Context) (int, error) {
	return call[int](ctx, c, http.MethodGet, nil, nil, "Word", "GetReviewWordCount")
}
