// cmd/provider-cli/styles.go
package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"provider-ranking-workers/internal/models"
)

var (
	colorBorder  = lipgloss.Color("240")
	colorHeader  = lipgloss.Color("62")
	colorMuted   = lipgloss.Color("245")
	colorSuccess = lipgloss.Color("78")
	colorInfo    = lipgloss.Color("39")
	colorWarning = lipgloss.Color("214")
	colorDanger  = lipgloss.Color("203")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	labelStyle = lipgloss.NewStyle().Bold(true).Width(22)
)

// toneColor maps a badge tone onto the terminal palette.
func toneColor(tone models.Tone) lipgloss.Color {
	switch tone {
	case models.ToneSuccess:
		return colorSuccess
	case models.ToneInfo:
		return colorInfo
	case models.ToneWarning:
		return colorWarning
	case models.ToneDanger:
		return colorDanger
	default:
		return colorMuted
	}
}

func badge(text string, tone models.Tone) string {
	return lipgloss.NewStyle().Foreground(toneColor(tone)).Bold(true).Render(text)
}

// renderTable draws rows with a shared look. tones, when non-nil, colours
// the column at toneCol of each row.
func renderTable(headers []string, rows [][]string, toneCol int, tones []models.Tone) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == toneCol && row >= 0 && row < len(tones) {
				return cellStyle.Foreground(toneColor(tones[row]))
			}
			return cellStyle
		})
	return t.String()
}

func keyValues(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(&b, "%s%s\n", labelStyle.Render(pairs[i]), pairs[i+1])
	}
	return b.String()
}

func joinCodes(codes []models.FactorCode) string {
	if len(codes) == 0 {
		return mutedStyle.Render("-")
	}
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
