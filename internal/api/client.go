package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// CompletionRequest describes one generation call.
type CompletionRequest struct {
	Messages    []openai.ChatCompletionMessage
	Temperature float32
	MaxTokens   int
	Stream      bool
	// Cancel is polled once per incoming chunk when streaming.
	Cancel *CancelToken
	// OnChunk receives each incremental piece of text when streaming.
	OnChunk func(string)
	// OnFinish fires once when a streamed generation completes normally.
	OnFinish func()
}

// Client wraps an OpenAI-compatible chat-completion endpoint.
//
// Transport and API failures never surface as errors: they are converted to a
// user-visible error string, delivered once through OnChunk when streaming,
// and returned as the response text. At most one generation may be active per
// client; preventing concurrent calls is the caller's job.
type Client struct {
	api   *openai.Client
	model string
	log   *zap.SugaredLogger
}

// headerTransport adds the attribution headers OpenRouter asks for.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// New builds a client for the given endpoint. An empty baseURL keeps the
// library default.
func New(apiKey, baseURL, model string, log *zap.SugaredLogger) *Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	if strings.Contains(clientConfig.BaseURL, "openrouter.ai") {
		clientConfig.HTTPClient = &http.Client{
			Transport: &headerTransport{headers: map[string]string{
				"HTTP-Referer": "https://github.com/fastask/fastask",
				"X-Title":      "FastAsk",
			}},
		}
	}

	log.Infow("api client initialized", "model", model, "url", clientConfig.BaseURL)
	return &Client{
		api:   openai.NewClientWithConfig(clientConfig),
		model: model,
		log:   log,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete performs one chat completion and returns the generated text. When
// streaming, chunks are forwarded to OnChunk in arrival order and OnFinish
// fires exactly once on normal completion; cancellation stops both.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) string {
	if req.Stream {
		return c.completeStreaming(ctx, req)
	}
	return c.completeBlocking(ctx, req)
}

func (c *Client) completeBlocking(ctx context.Context, req CompletionRequest) string {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return c.errorText(req, err)
	}
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}

func (c *Client) completeStreaming(ctx context.Context, req CompletionRequest) string {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return c.errorText(req, err)
	}
	defer stream.Close()

	var full strings.Builder
	finished := false

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return c.errorText(req, err)
		}

		// Poll the token at each chunk boundary. A chunk decoded before the
		// flag was observed is dropped here, not emitted.
		if req.Cancel.Cancelled() {
			c.log.Infow("generation cancelled by user")
			return full.String()
		}

		if len(resp.Choices) == 0 {
			continue
		}
		choice := resp.Choices[0]

		if choice.FinishReason != "" && choice.FinishReason != openai.FinishReasonNull {
			c.log.Infow("generation finished", "reason", choice.FinishReason)
			finished = true
			if req.OnFinish != nil {
				req.OnFinish()
			}
			break
		}

		if choice.Delta.Content != "" {
			full.WriteString(choice.Delta.Content)
			if req.OnChunk != nil {
				req.OnChunk(choice.Delta.Content)
			}
		}
	}

	if !finished && !req.Cancel.Cancelled() && req.OnFinish != nil {
		req.OnFinish()
	}
	return full.String()
}

// errorText converts a failure into the user-visible response text, delivering
// it once through OnChunk when streaming.
func (c *Client) errorText(req CompletionRequest, err error) string {
	msg := fmt.Sprintf("Error: failed to get a response from the API: %v", err)
	c.log.Errorw("completion failed", "err", err)
	if req.Stream && req.OnChunk != nil {
		req.OnChunk(msg)
	}
	return msg
}
