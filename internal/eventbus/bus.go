package eventbus

import (
	"errors"
	"time"

	"github.com/fastask/fastask/internal/history"
)

// UIEvent represents events sent from the UI to the core service.
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from the core service to the UI.
type CoreEvent interface {
	CoreEvent()
}

// SubmitQueryEvent - the user submitted a query, optionally with a screenshot.
type SubmitQueryEvent struct {
	Query          string
	ScreenshotPath string
}

func (e SubmitQueryEvent) UIEvent() {}

// CancelGenerationEvent - the user asked to stop the in-flight generation.
type CancelGenerationEvent struct{}

func (e CancelGenerationEvent) UIEvent() {}

// RefreshHistoryEvent - the UI wants a fresh page of history items.
type RefreshHistoryEvent struct {
	Filter string
}

func (e RefreshHistoryEvent) UIEvent() {}

// DeleteHistoryItemEvent - the user removed one history entry.
type DeleteHistoryItemEvent struct {
	ID int64
}

func (e DeleteHistoryItemEvent) UIEvent() {}

// GenerationStartedEvent - a generation session began; the history row exists.
type GenerationStartedEvent struct {
	HistoryID int64
}

func (e GenerationStartedEvent) CoreEvent() {}

// ChunkEvent - one incremental piece of streamed text.
type ChunkEvent struct {
	Text string
}

func (e ChunkEvent) CoreEvent() {}

// GenerationCompleteEvent - streaming finished; carries the full aggregate.
type GenerationCompleteEvent struct {
	FullText string
}

func (e GenerationCompleteEvent) CoreEvent() {}

// ResponseReceivedEvent - a non-streaming call returned its whole response.
type ResponseReceivedEvent struct {
	Text string
}

func (e ResponseReceivedEvent) CoreEvent() {}

// GenerationStoppedEvent - the session was cancelled; carries the final text
// with the cancellation marker appended.
type GenerationStoppedEvent struct {
	FinalText string
}

func (e GenerationStoppedEvent) CoreEvent() {}

// HistoryUpdatedEvent - a fresh page of history items for the list pane.
type HistoryUpdatedEvent struct {
	Items []history.Item
}

func (e HistoryUpdatedEvent) CoreEvent() {}

// StatusEvent - a transient status-bar message.
type StatusEvent struct {
	Text string
}

func (e StatusEvent) CoreEvent() {}

// BusError represents errors in event delivery.
type BusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e BusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

// CircuitBreakerState represents the state of the circuit breaker.
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker trips after repeated delivery failures so a wedged consumer
// cannot stall the producer.
type CircuitBreaker struct {
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	if cb.state == CircuitOpen {
		if time.Since(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

// Bus carries typed events between the UI loop and the core service. Both
// directions are buffered; sends never block.
type Bus struct {
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(BusError)
	circuitBreaker *CircuitBreaker
}

func New() *Bus {
	return &Bus{
		uiToCore:       make(chan UIEvent, 100),
		coreToUI:       make(chan CoreEvent, 100),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (b *Bus) SetErrorCallback(callback func(BusError)) {
	b.errorCallback = callback
}

func (b *Bus) reportError(operation string, err error) {
	busError := BusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	b.circuitBreaker.RecordFailure()

	if b.errorCallback != nil {
		b.errorCallback(busError)
	}
}

func (b *Bus) SendToCore(event UIEvent) error {
	if b.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		b.reportError("SendToCore", err)
		return err
	}

	select {
	case b.uiToCore <- event:
		b.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("UI to core channel is full")
		b.reportError("SendToCore", err)
		return err
	}
}

func (b *Bus) SendToUI(event CoreEvent) error {
	if b.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		b.reportError("SendToUI", err)
		return err
	}

	select {
	case b.coreToUI <- event:
		b.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("core to UI channel is full")
		b.reportError("SendToUI", err)
		return err
	}
}

func (b *Bus) UIToCore() <-chan UIEvent {
	return b.uiToCore
}

func (b *Bus) CoreToUI() <-chan CoreEvent {
	return b.coreToUI
}

func (b *Bus) Close() {
	close(b.uiToCore)
	close(b.coreToUI)
}
