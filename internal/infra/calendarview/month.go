// Package calendarview renders calendar markers for terminals, chat
// messages and iCalendar feeds.
package calendarview

import (
	"fmt"
	"strings"
	"time"

	"calendrette/internal/domain/calendar"

	"github.com/charmbracelet/lipgloss"
)

var palette = map[string]lipgloss.Color{
	"red":   lipgloss.Color("#E53935"),
	"pink":  lipgloss.Color("#F06292"),
	"green": lipgloss.Color("#43A047"),
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	weekdayStyle = lipgloss.NewStyle().Faint(true)
	todayStyle   = lipgloss.NewStyle().Reverse(true)
)

func colorOf(name string) lipgloss.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return lipgloss.Color(name)
}

// markerStyle maps a highlight onto terminal attributes: solid fills become
// a background, outlines an underlined foreground, past markers are faint.
func markerStyle(h calendar.Highlight) lipgloss.Style {
	color := colorOf(h.Color)
	style := lipgloss.NewStyle()
	switch h.FillMode {
	case calendar.FillOutline:
		style = style.Foreground(color).Bold(true).Underline(true)
	default:
		style = style.Background(color).Foreground(lipgloss.Color("#FFFFFF"))
	}
	if h.ContentClass == calendar.PastClass {
		style = style.Faint(true)
	}
	return style
}

// RenderMonth draws a Sunday-first month grid followed by a legend of the
// marker labels present in that month. A day with several markers uses the
// first one.
func RenderMonth(year int, month time.Month, markers []calendar.Marker, today time.Time) string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := daysIn(year, month)
	todayKey := civil(today)

	var b strings.Builder
	title := first.Format("January 2006")
	pad := (20 - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + titleStyle.Render(title) + "\n")
	b.WriteString(weekdayStyle.Render("Su Mo Tu We Th Fr Sa") + "\n")

	var legend []calendar.Marker
	seen := map[string]bool{}

	col := int(first.Weekday())
	b.WriteString(strings.Repeat("   ", col))
	for d := 1; d <= days; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		cell := fmt.Sprintf("%2d", d)

		on := calendar.OnDay(markers, date)
		switch {
		case len(on) > 0:
			style := markerStyle(on[0].Highlight)
			if date.Equal(todayKey) {
				style = style.Reverse(true)
			}
			cell = style.Render(cell)
			for _, m := range on {
				if !seen[m.Label] {
					seen[m.Label] = true
					legend = append(legend, m)
				}
			}
		case date.Equal(todayKey):
			cell = todayStyle.Render(cell)
		}

		b.WriteString(cell)
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		} else if d < days {
			b.WriteString(" ")
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	if len(legend) > 0 {
		b.WriteString("\n")
		for _, m := range legend {
			swatch := markerStyle(calendar.Highlight{Color: m.Highlight.Color, FillMode: m.Highlight.FillMode}).Render("  ")
			b.WriteString(swatch + " " + m.Label + "\n")
		}
	}
	return b.String()
}

// AgendaEntry lists the marker labels on one day.
type AgendaEntry struct {
	Date   time.Time
	Labels []string
}

// MonthAgenda returns the marked days of a month in date order.
func MonthAgenda(year int, month time.Month, markers []calendar.Marker) []AgendaEntry {
	var out []AgendaEntry
	for d := 1; d <= daysIn(year, month); d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		on := calendar.OnDay(markers, date)
		if len(on) == 0 {
			continue
		}
		entry := AgendaEntry{Date: date}
		for _, m := range on {
			entry.Labels = append(entry.Labels, m.Label)
		}
		out = append(out, entry)
	}
	return out
}

// FormatAgenda renders entries as plain text, one day per line.
func FormatAgenda(entries []AgendaEntry) string {
	if len(entries) == 0 {
		return "Nothing marked this month."
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s\n", e.Date.Format("Mon Jan 02"), strings.Join(e.Labels, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
