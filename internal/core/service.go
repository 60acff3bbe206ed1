package core

import (
	"context"
	"sync"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/fastask/fastask/internal/api"
	"github.com/fastask/fastask/internal/config"
	"github.com/fastask/fastask/internal/eventbus"
	"github.com/fastask/fastask/internal/history"
	"github.com/fastask/fastask/internal/screenshot"
	"github.com/fastask/fastask/internal/worker"
)

const (
	// PlaceholderResponse fills the history row until the generation resolves.
	PlaceholderResponse = "[Generating...]"
	// CancelMarker is appended to the stored response on cancellation.
	CancelMarker = "*Generation cancelled by user*"
	// HistoryPageSize is how many recent entries the launcher pane shows.
	HistoryPageSize = 10
)

// Completer is the API client surface the service depends on.
type Completer interface {
	worker.Completer
	Model() string
}

// QueryService drives generation sessions: it consumes UI events from the
// bus, runs the background worker, and keeps the history store in sync.
type QueryService struct {
	client Completer // may be nil when the config carries no API key
	store  *history.Store
	cfg    *config.Config
	bus    *eventbus.Bus
	log    *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	session *GenerationSession
}

// NewQueryService creates the service regardless of config validity, so the
// launcher can still browse history without an API key.
func NewQueryService(cfg *config.Config, client Completer, store *history.Store, bus *eventbus.Bus, log *zap.SugaredLogger) *QueryService {
	ctx, cancel := context.WithCancel(context.Background())
	return &QueryService{
		client: client,
		store:  store,
		cfg:    cfg,
		bus:    bus,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start pushes the initial history page and runs the event loop goroutine.
func (s *QueryService) Start() {
	s.pushHistory("")
	go s.eventLoop()
}

func (s *QueryService) Stop() {
	if sess := s.activeSession(); sess != nil {
		sess.Cancel.Cancel()
	}
	s.cancel()
}

// IsReady reports whether submissions can be served.
func (s *QueryService) IsReady() bool {
	return s.client != nil
}

func (s *QueryService) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.bus.UIToCore():
			if !ok {
				return
			}
			s.handleUIEvent(event)
		}
	}
}

func (s *QueryService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitQueryEvent:
		s.processSubmit(e.Query, e.ScreenshotPath)
	case eventbus.CancelGenerationEvent:
		s.processCancel()
	case eventbus.RefreshHistoryEvent:
		s.pushHistory(e.Filter)
	case eventbus.DeleteHistoryItemEvent:
		s.processDelete(e.ID)
	}
}

func (s *QueryService) processSubmit(query, screenshotPath string) {
	if s.client == nil {
		s.sendToUI(eventbus.StatusEvent{Text: "API key not configured, set OPENAI_API_KEY"})
		return
	}
	// One request in flight by construction; the UI disables re-submission
	// while generating, this guard covers hotkey-driven submits.
	if s.activeSession() != nil {
		s.log.Debugw("submit ignored, generation already in flight")
		return
	}

	messages := []openai.ChatCompletionMessage{api.SystemMessage(s.cfg.SystemPrompt)}
	if screenshotPath != "" {
		uri, err := screenshot.DataURI(screenshotPath)
		if err != nil {
			// Degrade to a text-only query, the original behavior.
			s.log.Warnw("screenshot could not be inlined", "path", screenshotPath, "err", err)
			uri = ""
		}
		messages = append(messages, api.ImageMessage(query, uri))
		s.log.Infow("submitting query with screenshot", "model", s.client.Model())
	} else {
		messages = append(messages, api.UserMessage(query))
		s.log.Infow("submitting text query", "model", s.client.Model())
	}

	// The history row exists before the response resolves.
	historyID, err := s.store.Add(s.ctx, history.Item{
		Query:          query,
		Response:       PlaceholderResponse,
		HasScreenshot:  screenshotPath != "",
		ScreenshotPath: screenshotPath,
		ModelName:      s.client.Model(),
		Metadata: map[string]any{
			"temperature": s.cfg.Temperature,
			"max_tokens":  s.cfg.MaxTokens,
		},
	})
	if err != nil {
		s.log.Errorw("failed to record history item", "err", err)
	}

	sess := newSession(messages, s.cfg.Temperature, s.cfg.MaxTokens, historyID)
	s.setSession(sess)
	s.sendToUI(eventbus.GenerationStartedEvent{HistoryID: historyID})

	req := api.CompletionRequest{
		Messages:    sess.Messages,
		Temperature: sess.Temperature,
		MaxTokens:   sess.MaxTokens,
		Stream:      s.cfg.Stream,
		Cancel:      sess.Cancel,
	}
	worker.New(s.client, s.log).Run(s.ctx, req, worker.Events{
		OnChunk: func(text string) {
			sess.AppendChunk(text)
			s.sendToUI(eventbus.ChunkEvent{Text: text})
		},
		OnComplete: func(full string) {
			s.finishSession(sess, full)
		},
		OnResponse: func(text string) {
			s.finishSession(sess, text)
		},
		OnDone: func() {
			s.clearSession(sess)
		},
	})
}

// finishSession stores the final text and notifies the UI, once.
func (s *QueryService) finishSession(sess *GenerationSession, full string) {
	if !sess.FinalizeOnce() {
		return
	}
	s.updateResponse(sess.HistoryID, full)
	if s.cfg.Stream {
		s.sendToUI(eventbus.GenerationCompleteEvent{FullText: full})
	} else {
		s.sendToUI(eventbus.ResponseReceivedEvent{Text: full})
	}
	s.pushHistory("")
}

func (s *QueryService) processCancel() {
	sess := s.activeSession()
	if sess == nil {
		return
	}

	s.log.Infow("generation stop requested")
	sess.Cancel.Cancel()

	if !sess.FinalizeOnce() {
		return
	}

	final := sess.Accumulated()
	if final == "" {
		final = CancelMarker
	} else {
		final += "\n\n" + CancelMarker
	}
	s.updateResponse(sess.HistoryID, final)
	s.sendToUI(eventbus.GenerationStoppedEvent{FinalText: final})
	s.pushHistory("")
}

func (s *QueryService) processDelete(id int64) {
	deleted, err := s.store.Delete(s.ctx, id)
	if err != nil {
		s.log.Errorw("failed to delete history item", "id", id, "err", err)
		return
	}
	if deleted {
		s.pushHistory("")
	}
}

func (s *QueryService) updateResponse(historyID int64, text string) {
	if historyID == 0 {
		return
	}
	if err := s.store.UpdateResponse(s.ctx, historyID, text); err != nil {
		s.log.Errorw("failed to update history response", "id", historyID, "err", err)
	}
}

func (s *QueryService) pushHistory(filter string) {
	items, err := s.store.List(s.ctx, HistoryPageSize, 0, filter)
	if err != nil {
		s.log.Errorw("failed to load history", "err", err)
		return
	}
	s.sendToUI(eventbus.HistoryUpdatedEvent{Items: items})
}

func (s *QueryService) sendToUI(event eventbus.CoreEvent) {
	if err := s.bus.SendToUI(event); err != nil {
		s.log.Warnw("failed to send event to UI", "err", err)
	}
}

func (s *QueryService) activeSession() *GenerationSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *QueryService) setSession(sess *GenerationSession) {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
}

func (s *QueryService) clearSession(sess *GenerationSession) {
	s.mu.Lock()
	if s.session == sess {
		s.session = nil
	}
	s.mu.Unlock()
}
