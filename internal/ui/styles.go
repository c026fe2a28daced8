package ui

import (
	"github.com/charmbracelet/lipgloss"

	"studybuddy/internal/state"
)

type styles struct {
	title       lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	cursor      lipgloss.Style
	done        lipgloss.Style
	muted       lipgloss.Style
	errText     lipgloss.Style
	favorite    lipgloss.Style
	dayOn       lipgloss.Style
	dayOff      lipgloss.Style
	priority    map[state.Priority]lipgloss.Style
}

func newStyles(theme state.Theme) styles {
	accent := lipgloss.Color("63")
	mutedColor := lipgloss.Color("245")
	if theme == state.ThemeDark {
		accent = lipgloss.Color("105")
		mutedColor = lipgloss.Color("243")
	}

	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		tabActive:   lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true),
		tabInactive: lipgloss.NewStyle().Foreground(mutedColor),
		cursor:      lipgloss.NewStyle().Foreground(accent),
		done:        lipgloss.NewStyle().Strikethrough(true).Foreground(mutedColor),
		muted:       lipgloss.NewStyle().Foreground(mutedColor),
		errText:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		favorite:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		dayOn:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),
		dayOff:      lipgloss.NewStyle().Foreground(mutedColor),
		priority: map[state.Priority]lipgloss.Style{
			state.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			state.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			state.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		},
	}
}
