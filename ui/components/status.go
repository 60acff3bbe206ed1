package components

import (
	"strings"

	"github.com/fastask/fastask/ui/styles"
)

func RenderStatus(status string, generating bool, loadingDots int, width int) string {
	content := status
	if generating {
		content += strings.Repeat(".", loadingDots)
	}
	return styles.StatusStyle(width).Render(content)
}
