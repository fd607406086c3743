package httpclient

import (
	"context"
	"net/http"

	// Packages
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// VectorExists reports whether an article has been indexed in a
// collection, which defaults to schema.DefaultCollection
func (c *Client) VectorExists(ctx context.Context, req schema.CheckVectorRequest) (bool, error) {
	if req.CollectionName == "" {
		req.CollectionName = schema.DefaultCollection
	}
	return call[bool](ctx, c, http.MethodPost, req, nil, "Vector", "CheckVectorDataExist")
}
