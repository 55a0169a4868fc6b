package main

import (
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Tag     lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#8b93a7")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true),
		Tag:     lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
	}
}
