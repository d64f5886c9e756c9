package period

import (
	"math"
	"time"
)

// Derived is the calendar view of a Record. It is recomputed on every read.
// Valid is false when either date failed to parse; the time fields are then zero.
type Derived struct {
	ID            string
	StartDate     time.Time
	PredictedDate time.Time
	OvulationDate time.Time
	CycleDays     int
	CreatedAt     string
	Valid         bool
}

// Derive computes the cycle length and ovulation date of r. The ovulation
// offset is floor(cycleDays/2), so a negative span yields a negative offset.
func Derive(r Record) Derived {
	d := Derived{ID: r.ID, CreatedAt: r.CreatedAt}

	start, err := ParseDate(r.StartDate)
	if err != nil {
		return d
	}
	predicted, err := ParseDate(r.PredictedDate)
	if err != nil {
		return d
	}

	d.StartDate = start
	d.PredictedDate = predicted
	d.CycleDays = int(math.Floor(predicted.Sub(start).Hours() / 24))
	d.OvulationDate = start.AddDate(0, 0, floorDiv(d.CycleDays, 2))
	d.Valid = true
	return d
}

// DeriveAll derives every record, preserving order.
func DeriveAll(records []Record) []Derived {
	out := make([]Derived, 0, len(records))
	for _, r := range records {
		out = append(out, Derive(r))
	}
	return out
}

// ParseDate parses an ISO date, or an RFC 3339 timestamp truncated to its
// UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return t, nil
	}
	ts, tsErr := time.Parse(time.RFC3339Nano, s)
	if tsErr != nil {
		return time.Time{}, err
	}
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Predict returns the ISO date cycleDays after start.
func Predict(start time.Time, cycleDays int) string {
	return start.AddDate(0, 0, cycleDays).Format(DateLayout)
}

// SuggestCycleLength averages the positive cycle lengths of valid entries,
// rounding to the nearest day. fallback is returned when none qualify.
func SuggestCycleLength(cycles []Derived, fallback int) int {
	total, n := 0, 0
	for _, c := range cycles {
		if !c.Valid || c.CycleDays <= 0 {
			continue
		}
		total += c.CycleDays
		n++
	}
	if n == 0 {
		return fallback
	}
	return int(math.Round(float64(total) / float64(n)))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
