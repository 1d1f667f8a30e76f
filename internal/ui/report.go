package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfassina/wikilinks/internal/wikilink"
)

// RenderReport formats a resolve report for the terminal.
func RenderReport(file string, r wikilink.Report) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(file))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d rewritten, %d skipped", len(r.Rewritten), r.Skipped())))

	if len(r.Rewritten) > 0 {
		width := 0
		for _, rw := range r.Rewritten {
			width = max(width, lipgloss.Width(rw.Label))
		}
		for _, rw := range r.Rewritten {
			b.WriteString("\n")
			b.WriteString(LabelStyle.Width(width).Render(rw.Label))
			b.WriteString(DimText.Render(" -> "))
			b.WriteString(URLStyle.Render(rw.URL))
			if rw.Defined {
				b.WriteString(DefinedBadge.Render(" (definition)"))
			}
		}
	}

	if r.Skipped() > 0 {
		b.WriteString("\n")
		b.WriteString(DimText.Render(fmt.Sprintf("skipped: %d defined, %d unbracketed, %d not shortcut",
			r.Defined, r.Unbracketed, r.NotShortcut)))
	}

	return PanelBorder.Render(b.String())
}
