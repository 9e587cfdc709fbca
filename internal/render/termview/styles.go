package termview

import "github.com/charmbracelet/lipgloss"

// Styles are the terminal styles of each segment kind.
type Styles struct {
	Link    lipgloss.Style
	Mention lipgloss.Style
	Hashtag lipgloss.Style
	Media   lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Title   lipgloss.Style
	Card    lipgloss.Style
	Quote   lipgloss.Style
}

// NewStyles builds the default styles for a renderer. A renderer writing to a
// non-terminal falls back to plain text automatically.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Link:    r.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		Mention: r.NewStyle().Foreground(lipgloss.Color("111")),
		Hashtag: r.NewStyle().Foreground(lipgloss.Color("141")),
		Media:   r.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Title:   r.NewStyle().Bold(true),
		Card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Quote: r.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(1),
	}
}
