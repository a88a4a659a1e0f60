package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/collection-insights/constants"
	"github.com/joseph-ayodele/collection-insights/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// RenderSummary prints one line per collection followed by run totals.
func RenderSummary(w io.Writer, report pipeline.RunReport) {
	lines := []string{titleStyle.Render("Collections")}
	for _, o := range report.Outcomes {
		lines = append(lines, outcomeLine(o))
	}
	lines = append(lines, "", fmt.Sprintf("%s %d  %s %d  %s %d  %s %.1fs",
		dimStyle.Render("Processed:"), report.Count(constants.CollectionProcessed),
		dimStyle.Render("Missing:"), report.Count(constants.CollectionMissing),
		dimStyle.Render("Failed:"), report.Count(constants.CollectionFailed),
		dimStyle.Render("Elapsed:"), report.Elapsed.Seconds(),
	))
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

func outcomeLine(o pipeline.CollectionOutcome) string {
	line := statusLine(o)
	if o.Summary.RunID != uuid.Nil {
		line += "  " + dimStyle.Render("run "+o.Summary.RunID.String())
	}
	return line
}

func statusLine(o pipeline.CollectionOutcome) string {
	switch o.Status {
	case constants.CollectionProcessed:
		s := o.Summary
		return fmt.Sprintf("%s %s  %s %d/%d  %s %d  %s %d/%d",
			successStyle.Render("OK     "), o.Name,
			dimStyle.Render("docs"), s.Documents-s.DocumentsFailed, s.Documents,
			dimStyle.Render("pages"), s.PagesInvoked,
			dimStyle.Render("sections/subsections"), s.Sections, s.Subsections,
		)
	case constants.CollectionMissing:
		return fmt.Sprintf("%s %s  %s", warnStyle.Render("MISSING"), o.Name, dimStyle.Render(o.Path))
	default:
		msg := ""
		if o.Err != nil {
			msg = o.Err.Error()
		}
		return fmt.Sprintf("%s %s  %s", errorStyle.Render("FAILED "), o.Name, dimStyle.Render(msg))
	}
}
