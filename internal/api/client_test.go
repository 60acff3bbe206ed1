package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func streamChunk(content string, finish string) string {
	chunk := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion.chunk",
		"created": 0,
		"model":   "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"delta":         map[string]any{"content": content},
				"finish_reason": nil,
			},
		},
	}
	if finish != "" {
		chunk["choices"].([]map[string]any)[0]["finish_reason"] = finish
		chunk["choices"].([]map[string]any)[0]["delta"] = map[string]any{}
	}
	data, _ := json.Marshal(chunk)
	return string(data)
}

func newStreamServer(t *testing.T, chunks ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		for _, c := range chunks {
			fmt.Fprintf(w, "data: %s\n\n", c)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
}

func newTestClient(serverURL string) *Client {
	return New("test-key", serverURL+"/v1", "test-model", zap.NewNop().Sugar())
}

func TestStreamingChunksConcatenateToAggregate(t *testing.T) {
	server := newStreamServer(t,
		streamChunk("Hello", ""),
		streamChunk(", ", ""),
		streamChunk("world", ""),
		streamChunk("", "stop"),
	)
	defer server.Close()

	client := newTestClient(server.URL)

	var chunks []string
	finishes := 0
	full := client.Complete(context.Background(), CompletionRequest{
		Messages: []openai.ChatCompletionMessage{UserMessage("hi")},
		Stream:   true,
		Cancel:   NewCancelToken(),
		OnChunk:  func(c string) { chunks = append(chunks, c) },
		OnFinish: func() { finishes++ },
	})

	assert.Equal(t, "Hello, world", full)
	assert.Equal(t, "Hello, world", strings.Join(chunks, ""))
	assert.Equal(t, []string{"Hello", ", ", "world"}, chunks)
	assert.Equal(t, 1, finishes)
}

func TestStreamingFinishWithoutFinishReason(t *testing.T) {
	// Stream that just ends with [DONE]; OnFinish must still fire once.
	server := newStreamServer(t, streamChunk("done", ""))
	defer server.Close()

	client := newTestClient(server.URL)

	finishes := 0
	full := client.Complete(context.Background(), CompletionRequest{
		Messages: []openai.ChatCompletionMessage{UserMessage("hi")},
		Stream:   true,
		Cancel:   NewCancelToken(),
		OnFinish: func() { finishes++ },
	})

	assert.Equal(t, "done", full)
	assert.Equal(t, 1, finishes)
}

func TestCancelBeforeFirstChunkEmitsNothing(t *testing.T) {
	server := newStreamServer(t,
		streamChunk("should", ""),
		streamChunk(" not appear", ""),
		streamChunk("", "stop"),
	)
	defer server.Close()

	client := newTestClient(server.URL)

	token := NewCancelToken()
	token.Cancel()

	var chunks []string
	finishes := 0
	full := client.Complete(context.Background(), CompletionRequest{
		Messages: []openai.ChatCompletionMessage{UserMessage("hi")},
		Stream:   true,
		Cancel:   token,
		OnChunk:  func(c string) { chunks = append(chunks, c) },
		OnFinish: func() { finishes++ },
	})

	assert.Empty(t, full)
	assert.Empty(t, chunks)
	assert.Zero(t, finishes)
}

func TestCancelMidStreamStopsCallbacks(t *testing.T) {
	server := newStreamServer(t,
		streamChunk("first", ""),
		streamChunk("second", ""),
		streamChunk("", "stop"),
	)
	defer server.Close()

	client := newTestClient(server.URL)
	token := NewCancelToken()

	var chunks []string
	finishes := 0
	full := client.Complete(context.Background(), CompletionRequest{
		Messages: []openai.ChatCompletionMessage{UserMessage("hi")},
		Stream:   true,
		Cancel:   token,
		OnChunk: func(c string) {
			chunks = append(chunks, c)
			token.Cancel()
		},
		OnFinish: func() { finishes++ },
	})

	assert.Equal(t, "first", full)
	assert.Equal(t, []string{"first"}, chunks)
	assert.Zero(t, finishes)
}

func TestTransportErrorBecomesUserVisibleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	var chunks []string
	full := client.Complete(context.Background(), CompletionRequest{
		Messages: []openai.ChatCompletionMessage{UserMessage("hi")},
		Stream:   true,
		Cancel:   NewCancelToken(),
		OnChunk:  func(c string) { chunks = append(chunks, c) },
	})

	assert.True(t, strings.HasPrefix(full, "Error: failed to get a response from the API"))
	require.Len(t, chunks, 1)
	assert.Equal(t, full, chunks[0])
}

func TestBlockingCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"created": 0,
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "42"}, "finish_reason": "stop"}]
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	full := client.Complete(context.Background(), CompletionRequest{
		Messages: []openai.ChatCompletionMessage{UserMessage("meaning of life?")},
	})

	assert.Equal(t, "42", full)
}

func TestBlockingErrorBecomesUserVisibleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	full := client.Complete(context.Background(), CompletionRequest{
		Messages: []openai.ChatCompletionMessage{UserMessage("hi")},
	})

	assert.True(t, strings.HasPrefix(full, "Error: failed to get a response from the API"))
}

func TestImageMessageDegradesWithoutDataURI(t *testing.T) {
	msg := ImageMessage("describe this", "")
	assert.Equal(t, "describe this", msg.Content)
	assert.Empty(t, msg.MultiContent)

	msg = ImageMessage("describe this", "data:image/png;base64,aGk=")
	assert.Empty(t, msg.Content)
	require.Len(t, msg.MultiContent, 2)
	assert.Equal(t, openai.ChatMessagePartTypeText, msg.MultiContent[0].Type)
	assert.Equal(t, "data:image/png;base64,aGk=", msg.MultiContent[1].ImageURL.URL)
}
