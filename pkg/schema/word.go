package schema

import (
	"net/url"
	"strconv"
	"time"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Word struct {
	UserWordID     uint64     `json:"userWordId"`
	WordID         uint64     `json:"wordId"`
	Word           string     `json:"word"`
	NextReviewDate time.Time  `json:"nextReviewDate"`
	LastReviewed   *time.Time `json:"lastReviewed"`
	ReviewCount    int        `json:"reviewCount"`
}

type WordRequest struct {
	WordText string `json:"wordText"`
}

// WordAssistantRequest asks the English assistant about a single word
type WordAssistantRequest struct {
	Word string `json:"word"`
}

// TextAssistantRequest asks the English assistant about a passage of text
type TextAssistantRequest struct {
	Text string `json:"text"`
}

// SearchParams filters and paginates a list endpoint
type SearchParams struct {
	PageNumber    int        `json:"pageNumber,omitempty"`
	PageSize      int        `json:"pageSize"`
	Keyword       string     `json:"keyword,omitempty"`
	SortBy        string     `json:"sortBy,omitempty"`
	SortDirection string     `json:"sortDirection,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Values returns the search parameters as a query string
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	if p.PageNumber > 0 {
		v.Set("pageNumber", strconv.Itoa(p.PageNumber))
	}
	if p.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.Keyword != "" {
		v.Set("keyword", p.Keyword)
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortDirection != "" {
		v.Set("sortDirection", p.SortDirection)
	}
	if p.StartDate != nil {
		v.Set("startDate", p.StartDate.Format(time.RFC3339))
	}
	if p.EndDate != nil {
		v.Set("endDate", p.EndDate.Format(time.RFC3339))
	}
	return v
}

func (w Word) String() string {
	return Stringify(w)
}
