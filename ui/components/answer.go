package components

import (
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/fastask/fastask/ui/styles"
)

var (
	rendererMu    sync.Mutex
	renderer      *glamour.TermRenderer
	rendererWidth int
)

// RenderAnswer draws the response pane, rendering markdown with glamour.
// Partial markdown during streaming renders on a best-effort basis; any
// renderer error falls back to the raw text.
func RenderAnswer(answer string, width int) string {
	if answer == "" {
		return ""
	}
	rendered := renderMarkdown(answer, width)
	return styles.AnswerStyle(width).Render(rendered)
}

func renderMarkdown(text string, width int) string {
	wrap := width - 10
	if wrap < 20 {
		wrap = 20
	}

	rendererMu.Lock()
	defer rendererMu.Unlock()

	if renderer == nil || rendererWidth != wrap {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return text
		}
		renderer = r
		rendererWidth = wrap
	}

	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}
