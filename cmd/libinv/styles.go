package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vyrodovalexey/library-inventory/internal/model"
)

// Semantic styles shared by every command's terminal output.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e"))

	availableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	borrowedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9800"))
)

// statusStyle picks the style for a rendered borrow status.
func statusStyle(status string) lipgloss.Style {
	if status == model.StatusBorrowed {
		return borrowedStyle
	}
	return availableStyle
}
