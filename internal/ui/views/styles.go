package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Section       lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Label         lipgloss.Style
	Value         lipgloss.Style
	Locked        lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	Prompt        lipgloss.Style
	Dropdown      lipgloss.Style
	DropdownItem  lipgloss.Style
	DropdownMeta  lipgloss.Style
	DropdownFocus lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	Popup         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help:        lipgloss.NewStyle().Faint(true),
		Main:        lipgloss.NewStyle().Padding(1, 2),
		Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(14),
		Value:       lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Locked:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		Dropdown: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		DropdownItem:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		DropdownMeta:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		DropdownFocus: lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("226")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2),
	}
}

// PositionColor returns the accent for a roster slot: pitchers blue, batters yellow
func PositionColor(pitcher bool) lipgloss.Color {
	if pitcher {
		return lipgloss.Color("33")
	}
	return lipgloss.Color("214")
}
