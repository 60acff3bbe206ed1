package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndReceive(t *testing.T) {
	bus := New()
	defer bus.Close()

	require.NoError(t, bus.SendToCore(SubmitQueryEvent{Query: "hi"}))
	require.NoError(t, bus.SendToUI(ChunkEvent{Text: "chunk"}))

	ui := <-bus.UIToCore()
	submit, ok := ui.(SubmitQueryEvent)
	require.True(t, ok)
	assert.Equal(t, "hi", submit.Query)

	core := <-bus.CoreToUI()
	chunk, ok := core.(ChunkEvent)
	require.True(t, ok)
	assert.Equal(t, "chunk", chunk.Text)
}

func TestSendToUIPreservesOrder(t *testing.T) {
	bus := New()
	defer bus.Close()

	require.NoError(t, bus.SendToUI(ChunkEvent{Text: "a"}))
	require.NoError(t, bus.SendToUI(ChunkEvent{Text: "b"}))
	require.NoError(t, bus.SendToUI(GenerationCompleteEvent{FullText: "ab"}))

	assert.Equal(t, ChunkEvent{Text: "a"}, <-bus.CoreToUI())
	assert.Equal(t, ChunkEvent{Text: "b"}, <-bus.CoreToUI())
	assert.Equal(t, GenerationCompleteEvent{FullText: "ab"}, <-bus.CoreToUI())
}

func TestFullChannelReportsError(t *testing.T) {
	bus := New()
	defer bus.Close()

	var reported []BusError
	bus.SetErrorCallback(func(e BusError) { reported = append(reported, e) })

	for i := 0; i < 100; i++ {
		require.NoError(t, bus.SendToCore(CancelGenerationEvent{}))
	}
	err := bus.SendToCore(CancelGenerationEvent{})
	assert.Error(t, err)
	require.Len(t, reported, 1)
	assert.Equal(t, "SendToCore", reported[0].Operation)
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	assert.True(t, cb.IsOpen())

	time.Sleep(60 * time.Millisecond)
	assert.False(t, cb.IsOpen()) // half-open after the reset timeout

	cb.RecordSuccess()
	assert.False(t, cb.IsOpen())
}
