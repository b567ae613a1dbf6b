package output

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles used in text output.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Cursor  lipgloss.Style
	Hidden  lipgloss.Style
	Key     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")),
		Cursor:  r.NewStyle().Reverse(true),
		Hidden:  r.NewStyle().Faint(true),
		Key:     r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// DefaultStyles returns styles bound to the default lipgloss renderer.
func DefaultStyles() *Styles {
	return newStyles(lipgloss.DefaultRenderer())
}
