package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-tripsurvey/pkg/engine"
)

type styles struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Progress lipgloss.Style
}

var theme = styles{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("63")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")),
	Success: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42")),
	Warning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")),
	Error: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("196")),
	Progress: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")),
}

const barWidth = 20

// progressBar draws percent as a fixed-width bar.
func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return theme.Progress.Render(fmt.Sprintf("%s %3d%%", bar, percent))
}

func checkmark(done bool) string {
	if done {
		return theme.Success.Render("✓")
	}
	return theme.Muted.Render("·")
}

// renderError prefers the engine status line for survey failures.
func renderError(err error) string {
	var validation *engine.ValidationError
	var transportErr *engine.TransportError
	if errors.As(err, &validation) || errors.As(err, &transportErr) || errors.Is(err, engine.ErrSaveFailed) {
		return theme.Error.Render(engine.StatusMessage(err)) + " " + theme.Muted.Render(err.Error())
	}
	return theme.Error.Render("error:") + " " + err.Error()
}
