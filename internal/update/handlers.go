package update

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/aymanbagabas/go-osc52/v2"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fastask/fastask/internal/eventbus"
	"github.com/fastask/fastask/internal/models"
	"github.com/fastask/fastask/internal/screenshot"
)

// HandleKeyMsg handles keyboard input. Mode changes go through
// models.Transition so every path follows the same state machine.
func HandleKeyMsg(appModel *models.AppModel, keyMsg tea.KeyMsg, bus *eventbus.Bus, capturer screenshot.Capturer) tea.Cmd {
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		// Esc stops an in-flight generation; a second press quits.
		if appModel.Generating {
			if err := bus.SendToCore(eventbus.CancelGenerationEvent{}); err != nil {
				appModel.Status = "Error requesting stop: " + err.Error()
			}
			return nil
		}
		return tea.Quit
	case "enter":
		return handleEnter(appModel, bus)
	case "up":
		if appModel.Mode == models.ModeHistory && appModel.Selected > 0 {
			appModel.Selected--
		}
	case "down":
		if appModel.Mode == models.ModeHistory && appModel.Selected < len(appModel.HistoryItems)-1 {
			appModel.Selected++
		}
	case "ctrl+d":
		if appModel.Mode == models.ModeHistory {
			if item := appModel.SelectedItem(); item != nil {
				if err := bus.SendToCore(eventbus.DeleteHistoryItemEvent{ID: item.ID}); err != nil {
					appModel.Status = "Error deleting entry: " + err.Error()
				}
			}
		}
	case "ctrl+s":
		if capturer == nil {
			appModel.Status = "Screenshots not available"
			return nil
		}
		appModel.Status = "Capturing screenshot"
		return CaptureCmd(capturer)
	case "ctrl+y":
		if appModel.Answer == "" {
			return nil
		}
		appModel.Status = "Answer copied to clipboard"
		return CopyCmd(appModel.Answer)
	case "backspace":
		if len(appModel.Input) > 0 {
			runes := []rune(appModel.Input)
			appModel.Input = string(runes[:len(runes)-1])
		}
		if appModel.Input == "" && !appModel.Generating {
			appModel.Mode = models.Transition(appModel.Mode, models.InputCleared)
		}
	default:
		switch {
		case keyMsg.Type == tea.KeyRunes && len(keyMsg.Runes) > 0:
			// Covers terminal paste, which arrives as one multi-rune message.
			appModel.Input += string(keyMsg.Runes)
		case len([]rune(keyMsg.String())) == 1:
			appModel.Input += keyMsg.String()
		default:
			return nil
		}
		appModel.Mode = models.Transition(appModel.Mode, models.InputTyped)
	}
	return nil
}

func handleEnter(appModel *models.AppModel, bus *eventbus.Bus) tea.Cmd {
	// Empty input in the history pane recalls the highlighted entry.
	if appModel.Mode == models.ModeHistory && strings.TrimSpace(appModel.Input) == "" {
		if item := appModel.SelectedItem(); item != nil {
			appModel.Input = item.Query
			appModel.Answer = item.Response
			appModel.Generating = false
			appModel.Mode = models.Transition(appModel.Mode, models.HistorySelected)
			appModel.Status = "Recalled from history"
		}
		return nil
	}

	if strings.TrimSpace(appModel.Input) == "" || appModel.Generating {
		return nil
	}
	if !appModel.ClientReady {
		appModel.Status = "API key not configured, set OPENAI_API_KEY"
		return nil
	}

	event := eventbus.SubmitQueryEvent{
		Query:          appModel.Input,
		ScreenshotPath: appModel.Screenshot,
	}
	if err := bus.SendToCore(event); err != nil {
		appModel.Status = "Error sending query: " + err.Error()
		return nil
	}

	// The pending screenshot is consumed by this submit.
	appModel.Screenshot = ""
	appModel.Answer = ""
	appModel.Generating = true
	appModel.Mode = models.Transition(appModel.Mode, models.QuerySubmitted)
	appModel.Status = "Generating answer"
	return nil
}

// CoreEventMsg wraps core events for Bubble Tea.
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent applies one core event to the UI state.
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.GenerationStartedEvent:
		appModel.Generating = true
		appModel.Answer = ""
		appModel.Status = "Generating answer"
		appModel.Mode = models.Transition(appModel.Mode, models.QuerySubmitted)
	case eventbus.ChunkEvent:
		appModel.Answer += event.Text
		appModel.Mode = models.Transition(appModel.Mode, models.ChunkArrived)
	case eventbus.GenerationCompleteEvent:
		appModel.Answer = event.FullText
		appModel.Generating = false
		appModel.Status = "Done"
	case eventbus.ResponseReceivedEvent:
		appModel.Answer = event.Text
		appModel.Generating = false
		appModel.Status = "Done"
		appModel.Mode = models.Transition(appModel.Mode, models.ChunkArrived)
	case eventbus.GenerationStoppedEvent:
		appModel.Answer = event.FinalText
		appModel.Generating = false
		appModel.Status = "Generation stopped"
		appModel.Mode = models.Transition(appModel.Mode, models.GenerationStopped)
	case eventbus.HistoryUpdatedEvent:
		appModel.HistoryItems = event.Items
		appModel.ClampSelection()
	case eventbus.StatusEvent:
		appModel.Status = event.Text
	}
	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// ResetMsg returns the launcher to its summoned state, as if the window was
// hidden and reopened.
type ResetMsg struct{}

func HandleResetMsg(appModel *models.AppModel) {
	appModel.Input = ""
	appModel.Answer = ""
	appModel.Screenshot = ""
	appModel.Selected = 0
	appModel.Status = "Ready"
	if !appModel.Generating {
		appModel.Mode = models.Transition(appModel.Mode, models.InputCleared)
	}
}

// CopyCmd puts the text on the system clipboard with an OSC 52 escape,
// which reaches the hosting terminal even over ssh.
func CopyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		_, _ = osc52.New(text).WriteTo(os.Stderr)
		return nil
	}
}

// ScreenshotMsg carries the result of an asynchronous capture.
type ScreenshotMsg struct {
	Path string
	Err  error
}

// CaptureCmd runs the external capture tool off the UI goroutine.
func CaptureCmd(capturer screenshot.Capturer) tea.Cmd {
	return func() tea.Msg {
		path, err := capturer.Capture(context.Background())
		return ScreenshotMsg{Path: path, Err: err}
	}
}

func HandleScreenshotMsg(appModel *models.AppModel, msg ScreenshotMsg) {
	switch {
	case errors.Is(msg.Err, screenshot.ErrCancelled):
		appModel.Status = "Screenshot cancelled"
	case msg.Err != nil:
		appModel.Status = "Screenshot failed: " + msg.Err.Error()
	default:
		appModel.Screenshot = msg.Path
		appModel.Status = "Screenshot attached, press Enter to send"
	}
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	if appModel.Generating {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
