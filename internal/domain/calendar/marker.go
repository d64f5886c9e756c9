// Package calendar turns derived cycles into renderable calendar markers.
package calendar

import (
	"fmt"
	"time"

	"calendrette/internal/domain/period"
)

// FillMode is how a marker's day cell is highlighted.
type FillMode string

const (
	FillSolid   FillMode = "solid"
	FillOutline FillMode = "outline"
)

// PastClass is the content class applied to markers of cycles that started
// before the reference date.
const PastClass = "past-opacity"

// Highlight describes the visual style of a marker.
type Highlight struct {
	Color        string
	FillMode     FillMode
	ContentClass string
}

// Marker is a render-only annotation. Markers are regenerated on every render.
type Marker struct {
	Key       string
	Dates     []time.Time
	Highlight Highlight
	Label     string
}

// Past reports whether the marker carries the past modifier.
func (m Marker) Past() bool {
	return m.Highlight.ContentClass == PastClass
}

// Marker kinds, in emission order for each cycle.
const (
	KindStart      = "rules"
	KindPrediction = "prediction"
	KindOvulation  = "ovulation"
)

// Generator builds markers. Now supplies the fallback reference date.
type Generator struct {
	Now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{Now: time.Now}
}

// Generate emits start, prediction and ovulation markers for every valid
// cycle; invalid cycles produce none. Keys use the cycle's input index.
//
// A zero reference defaults to the start of the first valid cycle, or to
// the current time when there is none.
func (g *Generator) Generate(cycles []period.Derived, reference time.Time) []Marker {
	if reference.IsZero() {
		reference = g.defaultReference(cycles)
	}

	markers := make([]Marker, 0, len(cycles)*3)
	for i, c := range cycles {
		if !c.Valid {
			continue
		}
		class := ""
		if c.StartDate.Before(reference) {
			class = PastClass
		}
		markers = append(markers,
			Marker{
				Key:       fmt.Sprintf("%s-%d", KindStart, i),
				Dates:     []time.Time{c.StartDate},
				Highlight: Highlight{Color: "red", FillMode: FillSolid, ContentClass: class},
				Label:     "Period start",
			},
			Marker{
				Key:       fmt.Sprintf("%s-%d", KindPrediction, i),
				Dates:     []time.Time{c.PredictedDate},
				Highlight: Highlight{Color: "pink", FillMode: FillOutline, ContentClass: class},
				Label:     "Predicted next period",
			},
			Marker{
				Key:       fmt.Sprintf("%s-%d", KindOvulation, i),
				Dates:     []time.Time{c.OvulationDate},
				Highlight: Highlight{Color: "green", FillMode: FillSolid, ContentClass: class},
				Label:     "Peak ovulation",
			},
		)
	}
	return markers
}

func (g *Generator) defaultReference(cycles []period.Derived) time.Time {
	for _, c := range cycles {
		if c.Valid {
			return c.StartDate
		}
	}
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// OnDay returns the markers that include the given calendar day.
func OnDay(markers []Marker, day time.Time) []Marker {
	y, m, d := day.Date()
	var out []Marker
	for _, mk := range markers {
		for _, t := range mk.Dates {
			ty, tm, td := t.Date()
			if ty == y && tm == m && td == d {
				out = append(out, mk)
				break
			}
		}
	}
	return out
}
