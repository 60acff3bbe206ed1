package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fastask/fastask/internal/dispatcher"
	"github.com/fastask/fastask/internal/models"
	"github.com/fastask/fastask/internal/screenshot"
	"github.com/fastask/fastask/internal/update"
	"github.com/fastask/fastask/ui/components"
)

// LauncherModel adapts the shared UI state to the Bubble Tea interface.
type LauncherModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
	capturer   screenshot.Capturer
}

func (m *LauncherModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *LauncherModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Core events re-arm the listener so the next one gets through.
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	cmd := update.HandleUpdate(&m.appModel, msg, m.dispatcher.Bus(), m.capturer)
	return m, cmd
}

func (m *LauncherModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderInput(m.appModel.Input, m.appModel.Screenshot, m.appModel.Width))
	b.WriteString("\n")

	switch m.appModel.Mode {
	case models.ModeHistory:
		b.WriteString(components.RenderHistory(m.appModel.HistoryItems, m.appModel.Selected, m.appModel.Width))
	case models.ModeAnswer:
		b.WriteString(components.RenderAnswer(m.appModel.Answer, m.appModel.Width))
		b.WriteString("\n")
	}

	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Generating, m.appModel.LoadingDots, m.appModel.Width))
	return b.String()
}
