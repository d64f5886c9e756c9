package period

import (
	"sort"
	"time"
)

const (
	// DateLayout is the ISO-8601 calendar date form used for start and predicted dates.
	DateLayout = "2006-01-02"
	// TimestampLayout matches the millisecond UTC form of CreatedAt.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Record is a persisted cycle entry. It is created on submission and never
// mutated in place; corrections are a delete followed by a new save.
type Record struct {
	ID            string `json:"id,omitempty"`
	StartDate     string `json:"startDate"`
	PredictedDate string `json:"predictedDate"`
	CreatedAt     string `json:"createdAt"`
}

// Draft is what a user submits before a backend assigns an ID and timestamp.
type Draft struct {
	StartDate     string
	PredictedDate string
}

// Record converts the draft into an unsaved record.
func (d Draft) Record() Record {
	return Record{StartDate: d.StartDate, PredictedDate: d.PredictedDate}
}

// FormatTimestamp renders t the way CreatedAt is stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// SortNewestFirst orders records by CreatedAt descending. Records with an
// unparseable timestamp sink to the end, keeping their relative order.
func SortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return createdAt(records[i]).After(createdAt(records[j]))
	})
}

func createdAt(r Record) time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Filter returns the records whose ID differs from id.
func Filter(records []Record, id string) []Record {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return kept
}

// HasStartDate reports whether any record starts on startDate.
func HasStartDate(records []Record, startDate string) bool {
	for _, r := range records {
		if r.StartDate == startDate {
			return true
		}
	}
	return false
}
