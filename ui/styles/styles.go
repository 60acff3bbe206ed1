package styles

import "github.com/charmbracelet/lipgloss"

// Palette groups the colors that differ between themes.
type Palette struct {
	Border    lipgloss.Color
	StatusFg  lipgloss.Color
	StatusBg  lipgloss.Color
	Dim       lipgloss.Color
	Selected  lipgloss.Color
	Title     lipgloss.Color
	Highlight lipgloss.Color
}

var (
	darkPalette = Palette{
		Border:    lipgloss.Color("62"),
		StatusFg:  lipgloss.Color("241"),
		StatusBg:  lipgloss.Color("235"),
		Dim:       lipgloss.Color("245"),
		Selected:  lipgloss.Color("214"),
		Title:     lipgloss.Color("141"),
		Highlight: lipgloss.Color("39"),
	}
	lightPalette = Palette{
		Border:    lipgloss.Color("61"),
		StatusFg:  lipgloss.Color("240"),
		StatusBg:  lipgloss.Color("254"),
		Dim:       lipgloss.Color("244"),
		Selected:  lipgloss.Color("166"),
		Title:     lipgloss.Color("55"),
		Highlight: lipgloss.Color("27"),
	}

	current = darkPalette
)

// SetTheme selects the palette. Anything but "light" means dark.
func SetTheme(name string) {
	if name == "light" {
		current = lightPalette
	} else {
		current = darkPalette
	}
}

func InputStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(current.Border).
		Padding(0, 1).
		Width(width - 4)
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(current.StatusFg).
		Background(current.StatusBg).
		Padding(0, 1).
		Width(width)
}

func AnswerStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(current.Selected).
		Padding(0, 1).
		MarginLeft(2).
		Width(width - 6)
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(current.Title).
		Bold(true).
		Padding(0, 2)
}

func HistoryItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(current.Dim).
		Padding(0, 2)
}

func SelectedHistoryItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(current.Selected).
		Bold(true).
		Padding(0, 1)
}

func TimestampStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(current.Dim)
}

func HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(current.Dim).
		Italic(true)
}

func BadgeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(current.Highlight).
		Bold(true)
}
