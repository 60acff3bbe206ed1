package core

import (
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/fastask/fastask/internal/api"
)

// GenerationSession is the state of one in-flight request, from submission to
// completion or cancellation. Exactly one may be active at a time.
type GenerationSession struct {
	Messages    []openai.ChatCompletionMessage
	Temperature float32
	MaxTokens   int
	Cancel      *api.CancelToken
	HistoryID   int64

	mu          sync.Mutex
	accumulated strings.Builder
	finalized   bool
}

func newSession(messages []openai.ChatCompletionMessage, temperature float32, maxTokens int, historyID int64) *GenerationSession {
	return &GenerationSession{
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Cancel:      api.NewCancelToken(),
		HistoryID:   historyID,
	}
}

// AppendChunk records one delivered chunk.
func (s *GenerationSession) AppendChunk(text string) {
	s.mu.Lock()
	s.accumulated.WriteString(text)
	s.mu.Unlock()
}

// Accumulated returns the text delivered so far.
func (s *GenerationSession) Accumulated() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accumulated.String()
}

// FinalizeOnce reports true exactly once per session. Completion and
// cancellation both funnel through it, so the history row's response is
// overwritten at most once.
func (s *GenerationSession) FinalizeOnce() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return false
	}
	s.finalized = true
	return true
}
