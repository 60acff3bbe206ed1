package dispatcher

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fastask/fastask/internal/eventbus"
	"github.com/fastask/fastask/internal/update"
)

// EventDispatcher bridges core events into Bubble Tea messages.
type EventDispatcher struct {
	bus    *eventbus.Bus
	ctx    context.Context
	cancel context.CancelFunc
}

func New(bus *eventbus.Bus) *EventDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventDispatcher{
		bus:    bus,
		ctx:    ctx,
		cancel: cancel,
	}
}

// ListenForCoreEvents waits for the next core event and wraps it as a
// tea.Msg. The UI model re-arms it after every delivery, so exactly one
// goroutine reads the core channel at a time.
func (d *EventDispatcher) ListenForCoreEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-d.ctx.Done():
			return nil
		case event, ok := <-d.bus.CoreToUI():
			if !ok {
				return nil
			}
			return update.CoreEventMsg{Event: event}
		}
	}
}

func (d *EventDispatcher) Stop() {
	d.cancel()
}

func (d *EventDispatcher) Bus() *eventbus.Bus {
	return d.bus
}
