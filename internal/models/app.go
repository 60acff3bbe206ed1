package models

import "github.com/fastask/fastask/internal/history"

// AppModel is the UI state - only local UI concerns. History items are
// read-only copies; the store remains their owner.
type AppModel struct {
	Mode         Mode           // Current display mode
	Input        string         // Query being composed
	Answer       string         // Streaming or completed response text
	HistoryItems []history.Item // Recent entries for the history pane
	Selected     int            // Cursor position in the history pane
	Generating   bool           // Whether a generation is in flight
	Screenshot   string         // Pending screenshot path, attached to the next submit
	Status       string         // Status bar text
	LoadingDots  int            // Animation counter while generating
	Width        int            // Terminal width
	Height       int            // Terminal height
	ClientReady  bool           // Whether the API client is configured
}

// SelectedItem returns the highlighted history entry, or nil.
func (m *AppModel) SelectedItem() *history.Item {
	if m.Selected < 0 || m.Selected >= len(m.HistoryItems) {
		return nil
	}
	return &m.HistoryItems[m.Selected]
}

// ClampSelection keeps the cursor inside the current history page.
func (m *AppModel) ClampSelection() {
	if len(m.HistoryItems) == 0 {
		m.Selected = 0
		return
	}
	if m.Selected >= len(m.HistoryItems) {
		m.Selected = len(m.HistoryItems) - 1
	}
	if m.Selected < 0 {
		m.Selected = 0
	}
}
