package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fastask/fastask/internal/eventbus"
	"github.com/fastask/fastask/internal/models"
	"github.com/fastask/fastask/internal/screenshot"
)

// HandleUpdate routes one Bubble Tea message. Local UI state is mutated in
// place; anything that needs the core goes over the bus.
func HandleUpdate(appModel *models.AppModel, msg tea.Msg, bus *eventbus.Bus, capturer screenshot.Capturer) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(appModel, msg, bus, capturer)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil
	case TickMsg:
		return HandleTickMsg(appModel)
	case ResetMsg:
		HandleResetMsg(appModel)
		return nil
	case ScreenshotMsg:
		HandleScreenshotMsg(appModel, msg)
		return nil
	case CoreEventMsg:
		return HandleCoreEvent(appModel, msg)
	}
	return nil
}
