package schema

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ArticleSummary struct {
	ArticleID    uint64 `json:"articleId"`
	ArticleTitle string `json:"articleTitle"`
}

type Article struct {
	ArticleID      uint64 `json:"articleId"`
	ArticleTitle   string `json:"articleTitle"`
	ArticleContent string `json:"articleContent"`
}

// ArticleRequest saves an article
type ArticleRequest struct {
	ArticleTitle   string `json:"articleTitle"`
	ArticleContent string `json:"articleContent"`
}

// AiArticleRequest asks the assistant to write an article
type AiArticleRequest struct {
	Prompt string `json:"prompt"`
}

type VectorizeArticleRequest struct {
	ArticleID      uint64 `json:"articleId"`
	CollectionName string `json:"collectionName"`
}

type ReadingProgress struct {
	ArticleID uint64  `json:"articleId"`
	Progress  float64 `json:"progress"`
}

type UpdateReadingProgressRequest struct {
	ArticleID uint64  `json:"articleId"`
	Progress  float64 `json:"progress"`
}

type CheckVectorRequest struct {
	ArticleID      uint64 `json:"articleId"`
	CollectionName string `json:"collectionName"`
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (a Article) String() string {
	return Stringify(a)
}
