package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	EndpointArticleStream = "Article/FetchAiArticle"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GenerateArticleStream asks the assistant to write an article for a
// prompt, and streams it back. The article is not saved: use CreateArticle
// with the result.
func (c *Client) GenerateArticleStream(ctx context.Context, req schema.AiArticleRequest, fn ChunkFn) (*schema.StreamResult, error) {
	if req.Prompt == "" {
		return nil, lingo.ErrBadParameter.With("prompt is required")
	}
	return c.Stream(ctx, EndpointArticleStream, req, fn)
}

// CreateArticle saves an article
func (c *Client) CreateArticle(ctx context.Context, req schema.ArticleRequest) error {
	if req.ArticleTitle == "" {
		return lingo.ErrBadParameter.With("title is required")
	} else if req.ArticleContent == "" {
		return lingo.ErrBadParameter.With("content is required")
	}
	_, err := call[json.RawMessage](ctx, c, http.MethodPost, req, nil, "Article", "GenerateArticle")
	return err
}

// ListArticles returns the titles of the articles of the user
func (c *Client) ListArticles(ctx context.Context) ([]schema.ArticleSummary, error) {
	return call[[]schema.ArticleSummary](ctx, c, http.MethodGet, nil, nil, "Article", "GetArticleList")
}

// GetArticle returns an article
func (c *Client) GetArticle(ctx context.Context, id uint64) (*schema.Article, error) {
	article, err := call[schema.Article](ctx, c, http.MethodGet, nil, nil, "Article", "GetArticle", strconv.FormatUint(id, 10))
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteArticle removes an article. The API exposes this as a GET.
func (c *Client) DeleteArticle(ctx context.Context, id uint64) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodGet, nil, nil, "Article", "DeleteArticle", strconv.FormatUint(id, 10))
	return err
}

// VectorizeArticle indexes an article, so that it can be used in article
// chat. The collection defaults to schema.DefaultCollection.
func (c *Client) VectorizeArticle(ctx context.Context, req schema.VectorizeArticleRequest) error {
	if req.ArticleID == 0 {
		return lingo.ErrBadParameter.With("article id is required")
	}
	if req.CollectionName == "" {
		req.CollectionName = schema.DefaultCollection
	}
	_, err := call[json.RawMessage](ctx, c, http.MethodPost, req, nil, "Article", "VectorizeArticle")
	return err
}

// UpdateReadingProgress records how far through an article the user is,
// as a fraction between zero and one
func (c *Client) UpdateReadingProgress(ctx context.Context, req schema.UpdateReadingProgressRequest) error {
	if req.Progress < 0 || req.Progress > 1 {
		return lingo.ErrBadParameter.Withf("progress %v out of range", req.Progress)
	}
	_, err := call[json.RawMessage](ctx, c, http.MethodPost, req, nil, "Article", "UpdateArticleReadingProgress")
	return err
}

// GetReadingProgress returns how far through an article the user is
func (c *Client) GetReadingProgress(ctx context.Context, id uint64) (*schema.ReadingProgress, error) {
	progress, err := call[schema.ReadingProgress](ctx, c, http.MethodGet, nil, nil, "Article", "GetArticleReadingProgress", strconv.FormatUint(id, 10))
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
