package schema_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	lingo "github.com/mutablelogic/go-lingo"
	"github.com/mutablelogic/go-lingo/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestIDFromString(t *testing.T) {
	assert := assert.New(t)

	var v struct {
		ID schema.ID `json:"id"`
	}
	assert.NoError(json.Unmarshal([]byte(`{"id":"abc-123"}`), &v))
	assert.Equal(schema.ID("abc-123"), v.ID)
	assert.Equal(uint64(0), v.ID.Uint())
}

func TestIDFromNumber(t *testing.T) {
	assert := assert.New(t)

	var v struct {
		ID schema.ID `json:"id"`
	}
	assert.NoError(json.Unmarshal([]byte(`{"id":42}`), &v))
	assert.Equal(schema.ID("42"), v.ID)
	assert.Equal(uint64(42), v.ID.Uint())

	assert.NoError(json.Unmarshal([]byte(`{"id":null}`), &v))
	assert.Equal(schema.ID(""), v.ID)

	assert.Error(json.Unmarshal([]byte(`{"id":true}`), &v))
}

func TestIDMarshalsAsString(t *testing.T) {
	data, err := json.Marshal(schema.ChatRequest{ChatSessionID: "7", Message: "hi"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"chat_session_id":"7","message":"hi"}`, string(data))
}

func TestChunkDecode(t *testing.T) {
	assert := assert.New(t)

	var chunk schema.Chunk
	assert.NoError(json.Unmarshal([]byte(`{"content":"Hello","finished":false}`), &chunk))
	assert.Equal("Hello", chunk.Content)
	assert.Nil(chunk.Error)

	assert.NoError(json.Unmarshal([]byte(`{"content":"","error":{"code":429,"message":"slow down"}}`), &chunk))
	if assert.NotNil(chunk.Error) {
		assert.Equal(429, chunk.Error.Code)
		assert.ErrorIs(chunk.Error, lingo.ErrStream)
		assert.Equal("[429] slow down", chunk.Error.Error())
	}
}

func TestParseErrorChunk(t *testing.T) {
	assert := assert.New(t)

	chunk := schema.NewParseErrorChunk()
	assert.Equal("", chunk.Content)
	if assert.NotNil(chunk.Error) {
		assert.Equal(500, chunk.Error.Code)
		assert.True(errors.Is(chunk.Error, lingo.ErrProtocol))
	}
}

func TestStreamResults(t *testing.T) {
	assert := assert.New(t)

	ok := schema.NewStreamSuccess("Hello world", "12")
	assert.True(ok.IsSuccess)
	assert.Nil(ok.Message)
	assert.Equal("Hello world", ok.Data.Response)
	assert.Equal(schema.ID("12"), ok.Data.ChatSessionID)

	fail := schema.NewStreamFailure("request error", 503, "12")
	assert.False(fail.IsSuccess)
	if assert.NotNil(fail.Message) {
		assert.Equal("[503] request error", *fail.Message)
	}
	assert.Equal("", fail.Data.Response)

	fail = schema.NewStreamFailure("connection reset", 0, "")
	assert.Equal("connection reset", *fail.Message)
}

func TestEnvelopeResult(t *testing.T) {
	assert := assert.New(t)

	var ok schema.Envelope[schema.Tokens]
	assert.NoError(json.Unmarshal([]byte(`{"isSuccess":true,"data":{"accessToken":"a","refreshToken":"r"}}`), &ok))
	tokens, err := ok.Result()
	assert.NoError(err)
	assert.Equal("a", tokens.AccessToken)
	assert.Equal("r", tokens.RefreshToken)

	var fail schema.Envelope[schema.Tokens]
	assert.NoError(json.Unmarshal([]byte(`{"isSuccess":false,"message":"expired","code":40101}`), &fail))
	_, err = fail.Result()
	assert.ErrorIs(err, lingo.ErrApplication)
	assert.Contains(err.Error(), "[40101] expired")
}

func TestTokensStringRedacts(t *testing.T) {
	s := schema.Tokens{AccessToken: "secret-access", RefreshToken: "secret-refresh"}.String()
	assert.NotContains(t, s, "secret")
}

func TestSearchParamsValues(t *testing.T) {
	assert := assert.New(t)

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	v := schema.SearchParams{PageNumber: 2, PageSize: 20, Keyword: "run", StartDate: &start}.Values()
	assert.Equal("2", v.Get("pageNumber"))
	assert.Equal("20", v.Get("pageSize"))
	assert.Equal("run", v.Get("keyword"))
	assert.Equal("2024-01-02T00:00:00Z", v.Get("startDate"))
	assert.False(v.Has("sortBy"))
}
