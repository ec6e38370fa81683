// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

// This file defines the shared lipgloss styles used by the panes.
package tui // import "github.com/toeirei/dkgtestbed/internal/tui"

import "github.com/charmbracelet/lipgloss"

const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // Teal/cyan
	colorSpecial   = lipgloss.Color("208") // Orange
	colorError     = lipgloss.Color("196")
	colorSuccess   = lipgloss.Color("40")
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	helpStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	specialStyle = lipgloss.NewStyle().Foreground(colorSpecial)

	mainTitleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(colorSubtle).
				Italic(true)

	// Panes: the focused one gets the highlight border.
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)
	activePaneStyle = paneStyle.BorderForeground(colorHighlight)

	tabStyle       = lipgloss.NewStyle().Foreground(colorSubtle).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true).Underline(true).Padding(0, 1)

	codeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)
