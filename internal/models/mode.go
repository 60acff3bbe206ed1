package models

// Mode is the display mode of the launcher window.
type Mode int

const (
	// ModeHistory shows past queries while the input is empty.
	ModeHistory Mode = iota
	// ModeInput shows the compose pane once the user starts typing.
	ModeInput
	// ModeAnswer shows a streaming or completed response.
	ModeAnswer
)

func (m Mode) String() string {
	switch m {
	case ModeHistory:
		return "history"
	case ModeInput:
		return "input"
	case ModeAnswer:
		return "answer"
	}
	return "unknown"
}

// ModeEvent is a UI occurrence that may switch the display mode.
type ModeEvent int

const (
	// InputCleared fires when the input field becomes empty.
	InputCleared ModeEvent = iota
	// InputTyped fires when the input field becomes non-empty.
	InputTyped
	// QuerySubmitted fires when the user submits a query.
	QuerySubmitted
	// ChunkArrived fires when a streamed chunk reaches the UI.
	ChunkArrived
	// HistorySelected fires when the user picks a past entry.
	HistorySelected
	// GenerationStopped fires when an in-flight generation is cancelled.
	GenerationStopped
)

// Transition is the explicit mode-switch function, independent of any
// rendering toolkit. Unlisted combinations keep the current mode.
func Transition(current Mode, event ModeEvent) Mode {
	switch event {
	case InputCleared:
		return ModeHistory
	case InputTyped:
		if current == ModeHistory {
			return ModeInput
		}
	case QuerySubmitted, ChunkArrived, HistorySelected:
		return ModeAnswer
	case GenerationStopped:
		// The cancelled answer stays on screen with its marker appended.
	}
	return current
}
