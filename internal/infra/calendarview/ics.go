package calendarview

import (
	"fmt"
	"io"
	"strings"
	"time"

	"calendrette/internal/domain/calendar"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//calendrette//cycle calendar//EN"

// WriteICS writes one all-day event per marker date. Event UIDs derive from
// marker keys.
func WriteICS(w io.Writer, markers []calendar.Marker, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, m := range markers {
		category := m.Key
		if i := strings.LastIndexByte(category, '-'); i > 0 {
			category = category[:i]
		}
		for i, d := range m.Dates {
			event := cal.AddEvent(fmt.Sprintf("%s-%d@calendrette", m.Key, i))
			event.SetDtStampTime(now)
			event.SetAllDayStartAt(d)
			event.SetAllDayEndAt(d.AddDate(0, 0, 1))
			event.SetSummary(m.Label)
			event.SetColor(m.Highlight.Color)
			event.SetProperty(ics.ComponentPropertyCategories, category)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("error writing calendar: %w", err)
	}
	return nil
}
