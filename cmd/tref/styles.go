package main

import "github.com/charmbracelet/lipgloss"

var (
	styleTree = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	stylePos = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)
