package schema

import (
	// Packages
	lingo "github.com/mutablelogic/go-lingo"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Envelope wraps every response body returned by the backend.
type Envelope[T any] struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message,omitempty"`
	Data      T      `json:"data"`
	Code      int    `json:"code,omitempty"`
}

// Paged is a page of results from a list endpoint.
type Paged[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Result returns the payload, or an error if the backend reported the
// request as unsuccessful.
func (e Envelope[T]) Result() (T, error) {
	if !e.IsSuccess {
		var zero T
		message := e.Message
		if message == "" {
			message = "unknown error"
		}
		if e.Code != 0 {
			return zero, lingo.ErrApplication.Withf("[%d] %s", e.Code, message)
		}
		return zero, lingo.ErrApplication.With(message)
	}
	return e.Data, nil
}

func (e Envelope[T]) String() string {
	return Stringify(e)
}
