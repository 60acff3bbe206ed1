package components

import (
	"strings"

	"github.com/fastask/fastask/internal/history"
	"github.com/fastask/fastask/ui/styles"
)

// queryPreviewLen matches the launcher pane width the desktop original used.
const queryPreviewLen = 60

// RenderHistory draws the recent-queries pane with the cursor row highlighted.
func RenderHistory(items []history.Item, selected int, width int) string {
	if len(items) == 0 {
		return styles.HintStyle().Render("  No history yet") + "\n"
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("Recent") + "\n")
	for i, item := range items {
		line := truncate(item.Query, queryPreviewLen)
		if item.HasScreenshot {
			line += " " + styles.BadgeStyle().Render("[img]")
		}
		line += "  " + styles.TimestampStyle().Render(item.Timestamp.Local().Format("Jan 02 15:04"))

		if i == selected {
			b.WriteString(styles.SelectedHistoryItemStyle().Render("› "+line) + "\n")
		} else {
			b.WriteString(styles.HistoryItemStyle().Render(line) + "\n")
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
