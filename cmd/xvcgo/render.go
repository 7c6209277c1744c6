package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/xvc-go/xvcgo/internal/output"
)

var tagStyles = map[output.Severity]lipgloss.Style{
	output.SeverityError: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	output.SeverityPanic: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Bold(true),
	output.SeverityWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	output.SeverityInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	output.SeverityDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

// render colors the severity tags of text when f is a terminal.
func render(text string, f *os.File) string {
	if !term.IsTerminal(int(f.Fd())) {
		return text
	}
	return colorTags(text)
}

func colorTags(text string) string {
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		sev, body, ok := output.SplitTag(line)
		style, styled := tagStyles[sev]
		if !ok || !styled {
			b.WriteString(line)
			continue
		}
		b.WriteString(style.Render(strings.TrimSuffix(sev.Tag(), " ")))
		b.WriteString(" ")
		b.WriteString(body)
	}
	return b.String()
}
