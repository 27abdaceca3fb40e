package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	CoralColor = lipgloss.Color("#ff7a59")
	MintColor  = lipgloss.Color("#66ffc3")
	BgColor    = lipgloss.Color("#0f1720")
	TextColor  = lipgloss.Color("#e6eef3")
	MutedColor = lipgloss.Color("#6b7a86")
	ErrorColor = lipgloss.Color("#ef4444")
)

// Styles is the set of styles bound to one output's renderer, so colour is
// dropped automatically when the output is not a terminal.
type Styles struct {
	Banner  lipgloss.Style
	Title   lipgloss.Style
	Link    lipgloss.Style
	Muted   lipgloss.Style
	Body    lipgloss.Style
	Company lipgloss.Style
	Box     lipgloss.Style
	Label   lipgloss.Style
	Info    lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Divider lipgloss.Style
}

func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Banner: r.NewStyle().
			Bold(true).
			Foreground(MintColor).
			Background(BgColor).
			Padding(0, 1),
		Title:   r.NewStyle().Bold(true).Foreground(MintColor),
		Link:    r.NewStyle().Foreground(CoralColor),
		Muted:   r.NewStyle().Foreground(MutedColor),
		Body:    r.NewStyle().Foreground(TextColor).Width(100),
		Company: r.NewStyle().Bold(true).Foreground(CoralColor),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1).
			MarginTop(1),
		Label:   r.NewStyle().Bold(true).Foreground(MintColor),
		Info:    r.NewStyle().Foreground(MutedColor).Italic(true),
		Error:   r.NewStyle().Foreground(ErrorColor),
		Warning: r.NewStyle().Bold(true).Foreground(CoralColor),
		Divider: r.NewStyle().Foreground(MutedColor),
	}
}
