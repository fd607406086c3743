package httpclient_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	// Packages
	lingo "github.com/mutablelogic/go-lingo"
	auth "github.com/mutablelogic/go-lingo/pkg/auth"
	httpclient "github.com/mutablelogic/go-lingo/pkg/httpclient"
	schema "github.com/mutablelogic/go-lingo/pkg/schema"
	token "github.com/mutablelogic/go-lingo/pkg/token"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	assert "github.com/stretchr/testify/assert"
)

// collector records the chunks delivered by a stream
type collector struct {
	sync.Mutex
	chunks []schema.Chunk
}

func (c *collector) fn(chunk schema.Chunk) {
	c.Lock()
	defer c.Unlock()
	c.chunks = append(c.chunks, chunk)
}

func (c *collector) get() []schema.Chunk {
	c.Lock()
	defer c.Unlock()
	return append([]schema.Chunk(nil), c.chunks...)
}

func contents(chunks []schema.Chunk) []string {
	result := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		result = append(result, chunk.Content)
	}
	return result
}

func TestStream_Ordered(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("Hello"), frame(", "), frame("world"))
	c, _, _ := newClient(t, mock)

	var chunks collector
	result, err := c.Stream(context.Background(), httpclient.EndpointChatStream, schema.ChatRequest{ChatSessionID: "42", Message: "hi"}, chunks.fn)
	assert.NoError(err)
	assert.Equal([]string{"Hello", ", ", "world"}, contents(chunks.get()))
	if assert.NotNil(result) {
		assert.True(result.IsSuccess)
		assert.Nil(result.Message)
		assert.Equal("Hello, world", result.Data.Response)
		assert.Equal(schema.ID("42"), result.Data.ChatSessionID)
	}

	requests := mock.Requests()
	if assert.Len(requests, 1) {
		assert.Equal(http.MethodPost, requests[0].Method)
		assert.Equal("/api/Chat/ChatStream", requests[0].Path)
		assert.Equal("Bearer access-0", requests[0].Auth)
		assert.Contains(requests[0].Body, `"message":"hi"`)
	}
}

func TestStream_NumericSession(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("ok"))
	c, _, _ := newClient(t, mock)

	// The session is echoed whether it is sent as a number or a string,
	// and is empty when it is not sent at all
	result, err := c.Stream(context.Background(), "Chat/ChatStream", map[string]any{"chat_session_id": 7, "message": "hi"}, nil)
	if assert.NoError(err) {
		assert.Equal("7", result.Data.ChatSessionID.String())
	}
	result, err = c.Stream(context.Background(), "Chat/ChatStream", map[string]any{"message": "hi"}, nil)
	if assert.NoError(err) {
		assert.Empty(result.Data.ChatSessionID)
	}
}

func TestStream_ErrorChunk(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("a"), errorFrame(429, "quota exceeded"), frame("b"), frame("c"))
	c, _, _ := newClient(t, mock)

	// The stream stops at the error chunk, which is delivered
	var chunks collector
	result, err := c.Stream(context.Background(), "Chat/ChatStream", schema.ChatRequest{ChatSessionID: "1", Message: "hi"}, chunks.fn)
	delivered := chunks.get()
	if assert.Len(delivered, 2) {
		assert.Equal("a", delivered[0].Content)
		if assert.NotNil(delivered[1].Error) {
			assert.Equal(429, delivered[1].Error.Code)
		}
	}
	if assert.NotNil(result) {
		assert.False(result.IsSuccess)
		if assert.NotNil(result.Message) {
			assert.Equal("[429] quota exceeded", *result.Message)
		}
		assert.Empty(result.Data.Response)
		assert.Equal(schema.ID("1"), result.Data.ChatSessionID)
	}
	var chunkErr *schema.ChunkError
	if assert.True(errors.As(err, &chunkErr)) {
		assert.Equal(429, chunkErr.Code)
	}
	assert.ErrorIs(err, lingo.ErrStream)
}

func TestStream_ParseError(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("a"), frame("b"), "data: {not json\n\n", frame("c"))
	c, _, _ := newClient(t, mock)

	// Chunks before the malformed frame are delivered, then a parse
	// error chunk, and the stream stops
	var chunks collector
	result, err := c.Stream(context.Background(), "Chat/ChatStream", nil, chunks.fn)
	delivered := chunks.get()
	if assert.Len(delivered, 3) {
		assert.Equal([]string{"a", "b", ""}, contents(delivered))
		assert.Equal(schema.NewParseErrorChunk(), delivered[2])
	}
	if assert.NotNil(result) && assert.NotNil(result.Message) {
		assert.False(result.IsSuccess)
		assert.Equal("[500] stream data parse error", *result.Message)
	}
	assert.ErrorIs(err, lingo.ErrProtocol)
}

func TestStream_IgnoresFramesWithoutData(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(": keepalive\n\n", frame("a"), "event: ping\n\n", frame("b"))
	c, _, _ := newClient(t, mock)

	var chunks collector
	result, err := c.Stream(context.Background(), "Chat/ChatStream", nil, chunks.fn)
	assert.NoError(err)
	assert.Equal([]string{"a", "b"}, contents(chunks.get()))
	assert.Equal("ab", result.Data.Response)
}

func TestStream_SplitFrames(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)

	// Frames are split across writes at arbitrary points
	wire := frame("one") + frame("two") + frame("three")
	mock.SetFrames(wire[:3], wire[3:17], wire[17:18], wire[18:])
	c, _, _ := newClient(t, mock)

	var chunks collector
	result, err := c.Stream(context.Background(), "Chat/ChatStream", nil, chunks.fn)
	assert.NoError(err)
	assert.Equal([]string{"one", "two", "three"}, contents(chunks.get()))
	assert.Equal("onetwothree", result.Data.Response)
}

func TestStream_Replay(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("x"), frame("y"), errorFrame(400, "bad"))
	c, _, _ := newClient(t, mock)

	// The same frames produce the same chunks and the same result
	var first, second collector
	r1, err1 := c.Stream(context.Background(), "Chat/ChatStream", nil, first.fn)
	r2, err2 := c.Stream(context.Background(), "Chat/ChatStream", nil, second.fn)
	assert.Equal(first.get(), second.get())
	assert.Equal(r1, r2)
	assert.Equal(err1.Error(), err2.Error())
}

func TestStream_CancelBetweenChunks(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("1"), frame("2"), frame("3"), frame("4"), frame("5"))
	c, _, _ := newClient(t, mock)

	// Cancel after the second chunk: no further chunks are delivered
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var chunks collector
	result, err := c.Stream(ctx, "Chat/ChatStream", schema.ChatRequest{ChatSessionID: "9"}, func(chunk schema.Chunk) {
		chunks.fn(chunk)
		if len(chunks.get()) == 2 {
			cancel()
		}
	})
	assert.Equal([]string{"1", "2"}, contents(chunks.get()))
	assert.True(lingo.IsCancelled(err))
	assert.ErrorIs(err, context.Canceled)
	if assert.NotNil(result) && assert.NotNil(result.Message) {
		assert.False(result.IsSuccess)
		assert.Equal("cancelled", *result.Message)
		assert.Equal(schema.ID("9"), result.Data.ChatSessionID)
	}
}

func TestStream_CancelDuringRead(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetStreamFn(func(w http.ResponseWriter, r *http.Request) {
		writeFrames(w, frame("1"), frame("2"))
		<-r.Context().Done()
	})
	c, _, _ := newClient(t, mock)

	// The server holds the stream open; cancelling ends the read
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var chunks collector
	_, err := c.Stream(ctx, "Chat/ChatStream", nil, func(chunk schema.Chunk) {
		chunks.fn(chunk)
		if chunk.Content == "2" {
			cancel()
		}
	})
	assert.Equal([]string{"1", "2"}, contents(chunks.get()))
	assert.True(lingo.IsCancelled(err))
}

func TestStream_CancelBeforeSend(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("1"))
	c, _, _ := newClient(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var chunks collector
	result, err := c.Stream(ctx, "Chat/ChatStream", nil, chunks.fn)
	assert.True(lingo.IsCancelled(err))
	assert.False(result.IsSuccess)
	assert.Empty(chunks.get())
	assert.Empty(mock.Requests())
}

func TestStream_RefreshAndRetry(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("fresh"))
	c, store, l := newClient(t, mock)
	mock.Expire()

	// The retried request carries the new token, and the aggregate holds
	// only the chunks of the retry
	var chunks collector
	result, err := c.Stream(context.Background(), "Chat/ChatStream", nil, chunks.fn)
	assert.NoError(err)
	assert.Equal("fresh", result.Data.Response)
	assert.Equal([]string{"fresh"}, contents(chunks.get()))
	assert.Equal(int32(1), mock.refreshes.Load())
	assert.Empty(l.get())

	requests := mock.Requests()
	if assert.Len(requests, 2) {
		assert.Equal("Bearer access-0", requests[0].Auth)
		assert.Equal("Bearer "+store.AccessToken(), requests[1].Auth)
		assert.Equal(requests[0].Body, requests[1].Body)
	}
}

func TestStream_ConcurrentUnauthorized(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("ok"))
	c, _, l := newClient(t, mock)
	mock.Expire()

	// Streams run in parallel; all are rejected and share one refresh
	const n = 8
	var wg sync.WaitGroup
	results := make([]*schema.StreamResult, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Stream(context.Background(), "Chat/ChatStream", schema.ChatRequest{ChatSessionID: schema.ID(fmt.Sprint(i))}, nil)
		}(i)
	}
	wg.Wait()

	assert.Equal(int32(1), mock.refreshes.Load())
	for i := 0; i < n; i++ {
		if assert.NoError(errs[i]) {
			assert.True(results[i].IsSuccess)
			assert.Equal(fmt.Sprint(i), results[i].Data.ChatSessionID.String())
		}
	}
	assert.Empty(l.get())
}

func TestStream_RefreshTokenMissing(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	c, _, l := newClientWithTokens(t, mock, "", "")

	var chunks collector
	result, err := c.Stream(context.Background(), "Chat/ChatStream", schema.ChatRequest{ChatSessionID: "3"}, chunks.fn)
	assert.ErrorIs(err, lingo.ErrRefreshTokenMissing)
	assert.Equal([]string{token.ReasonRefreshTokenMissing}, l.get())
	assert.Empty(chunks.get())
	if assert.NotNil(result) {
		assert.False(result.IsSuccess)
		assert.Equal(schema.ID("3"), result.Data.ChatSessionID)
	}
	assert.Equal(int32(0), mock.refreshes.Load())
}

func TestStream_RefreshFailed(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	c, _, l := newClient(t, mock)
	mock.Expire()
	mock.FailRefresh()

	result, err := c.Stream(context.Background(), "Chat/ChatStream", nil, nil)
	assert.ErrorIs(err, lingo.ErrRefreshFailed)
	assert.Equal([]string{token.ReasonRefreshError}, l.get())
	if assert.NotNil(result) && assert.NotNil(result.Message) {
		assert.False(result.IsSuccess)
		assert.Contains(*result.Message, "token refresh failed")
	}
	assert.Len(mock.Requests(), 1)
}

func TestStream_CancelDuringRefresh(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	store, err := token.NewMemoryStore(token.WithTokens("stale", "refresh-0"))
	if !assert.NoError(err) {
		t.FailNow()
	}
	refresher := &blockingRefresher{started: make(chan struct{}), release: make(chan struct{})}
	defer close(refresher.release)
	coordinator, err := auth.New(store, refresher)
	if !assert.NoError(err) {
		t.FailNow()
	}
	c, err := httpclient.New(mock.URL(), store, httpclient.WithCoordinator(coordinator))
	if !assert.NoError(err) {
		t.FailNow()
	}

	// Cancel while waiting for the refresh
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-refresher.started
		cancel()
	}()
	result, err := c.Stream(ctx, "Chat/ChatStream", nil, nil)
	assert.True(lingo.IsCancelled(err))
	if assert.NotNil(result) && assert.NotNil(result.Message) {
		assert.False(result.IsSuccess)
		assert.Equal(lingo.ErrCancelled.Error(), *result.Message)
	}
	assert.Len(mock.Requests(), 1)
}

func TestStream_RequestError(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetStreamFn(func(w http.ResponseWriter, r *http.Request) {
		_ = httpresponse.Error(w, httpresponse.Err(http.StatusServiceUnavailable))
	})
	c, _, _ := newClient(t, mock)

	var chunks collector
	result, err := c.Stream(context.Background(), "Chat/ChatStream", nil, chunks.fn)
	assert.ErrorIs(err, lingo.ErrTransport)
	var httpErr httpresponse.Err
	if assert.True(errors.As(err, &httpErr)) {
		assert.Equal(http.StatusServiceUnavailable, int(httpErr))
	}
	if assert.NotNil(result) && assert.NotNil(result.Message) {
		assert.Equal("[503] request error", *result.Message)
	}
	assert.Empty(chunks.get())
	assert.Equal(int32(0), mock.refreshes.Load())
}

func TestStream_TransportError(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	c, _, _ := newClient(t, mock)
	mock.Close()

	result, err := c.Stream(context.Background(), "Chat/ChatStream", nil, nil)
	assert.ErrorIs(err, lingo.ErrTransport)
	if assert.NotNil(result) {
		assert.False(result.IsSuccess)
	}
}

func TestStreamSeq(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("a"), frame("b"), frame("c"))
	c, _, _ := newClient(t, mock)

	var got []string
	for chunk, err := range c.StreamSeq(context.Background(), "Chat/ChatStream", nil) {
		assert.NoError(err)
		got = append(got, chunk.Content)
	}
	assert.Equal([]string{"a", "b", "c"}, got)

	// Breaking out of the loop stops the stream
	got = got[:0]
	for chunk := range c.StreamSeq(context.Background(), "Chat/ChatStream", nil) {
		got = append(got, chunk.Content)
		break
	}
	assert.Equal([]string{"a"}, got)
}

func TestStreamSeq_Error(t *testing.T) {
	assert := assert.New(t)
	mock := newMockAPI(t)
	mock.SetFrames(frame("a"), "data: oops\n\n")
	c, _, _ := newClient(t, mock)

	var got []string
	var last error
	for chunk, err := range c.StreamSeq(context.Background(), "Chat/ChatStream", nil) {
		if err != nil {
			last = err
			continue
		}
		got = append(got, strings.ToUpper(chunk.Content))
	}
	assert.Equal([]string{"A", ""}, got)
	assert.ErrorIs(last, lingo.ErrProtocol)
}
