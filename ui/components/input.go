package components

import (
	"github.com/fastask/fastask/ui/styles"
)

const inputPlaceholder = "Ask anything"

// RenderInput draws the query box. A pending screenshot shows as a badge so
// the user knows the next submit carries it.
func RenderInput(input, screenshotPath string, width int) string {
	content := input
	if content == "" {
		content = styles.HintStyle().Render(inputPlaceholder)
	}
	if screenshotPath != "" {
		content += " " + styles.BadgeStyle().Render("[screenshot]")
	}
	return styles.InputStyle(width).Render("> " + content)
}
