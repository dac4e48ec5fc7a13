package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Endpoint      lipgloss.Style
	Prompt        lipgloss.Style
	SearchBar     lipgloss.Style
	Result        lipgloss.Style
	Status        lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	Scroll        lipgloss.Style
	Help          lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Endpoint: lipgloss.NewStyle().Faint(true),
		Prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		SearchBar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		// Results are printed verbatim, only indented
		Result:        lipgloss.NewStyle().PaddingLeft(2),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Help:          lipgloss.NewStyle().Faint(true),
	}
}
