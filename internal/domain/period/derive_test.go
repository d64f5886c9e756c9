package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestDerive_TwentyEightDayCycle(t *testing.T) {
	d := Derive(Record{ID: "a", StartDate: "2025-01-01", PredictedDate: "2025-01-29", CreatedAt: "2025-01-01T08:00:00.000Z"})

	require.True(t, d.Valid)
	assert.Equal(t, 28, d.CycleDays)
	assert.Equal(t, "2025-01-15", d.OvulationDate.Format(DateLayout))
	assert.Equal(t, "a", d.ID)
	assert.Equal(t, "2025-01-01T08:00:00.000Z", d.CreatedAt)
}

func TestDerive_Formula(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		predicted string
		days      int
		ovulation string
	}{
		{"odd span floors", "2025-03-01", "2025-03-30", 29, "2025-03-15"},
		{"same day", "2025-03-01", "2025-03-01", 0, "2025-03-01"},
		{"across month end", "2025-01-20", "2025-02-17", 28, "2025-02-03"},
		{"leap year", "2024-02-10", "2024-03-09", 28, "2024-02-24"},
		{"negative odd span rounds down", "2025-03-10", "2025-03-05", -5, "2025-03-07"},
		{"negative even span", "2025-03-10", "2025-03-06", -4, "2025-03-08"},
		{"timestamp input", "2025-01-01T22:30:00Z", "2025-01-29", 28, "2025-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Derive(Record{StartDate: tt.start, PredictedDate: tt.predicted})
			require.True(t, d.Valid)
			assert.Equal(t, tt.days, d.CycleDays)
			assert.Equal(t, tt.ovulation, d.OvulationDate.Format(DateLayout))

			start := d.StartDate
			expected := start.AddDate(0, 0, floorDiv(d.CycleDays, 2))
			assert.True(t, expected.Equal(d.OvulationDate))
		})
	}
}

func TestDerive_MalformedDateIsInvalid(t *testing.T) {
	for _, r := range []Record{
		{StartDate: "not-a-date", PredictedDate: "2025-01-29"},
		{StartDate: "2025-01-01", PredictedDate: ""},
		{StartDate: "2025-13-01", PredictedDate: "2025-01-29"},
	} {
		d := Derive(r)
		assert.False(t, d.Valid, "record %+v", r)
		assert.True(t, d.StartDate.IsZero())
		assert.True(t, d.OvulationDate.IsZero())
	}
}

func TestDeriveAll_PreservesOrder(t *testing.T) {
	out := DeriveAll([]Record{
		{ID: "2", StartDate: "2025-02-01", PredictedDate: "2025-03-01"},
		{ID: "1", StartDate: "2025-01-01", PredictedDate: "2025-01-29"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].ID)
	assert.Equal(t, "1", out[1].ID)
	assert.Empty(t, DeriveAll(nil))
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 14, floorDiv(28, 2))
	assert.Equal(t, 14, floorDiv(29, 2))
	assert.Equal(t, -3, floorDiv(-5, 2))
	assert.Equal(t, -2, floorDiv(-4, 2))
	assert.Equal(t, 0, floorDiv(0, 2))
}

func TestSuggestCycleLength(t *testing.T) {
	cycles := []Derived{
		{Valid: true, CycleDays: 28},
		{Valid: true, CycleDays: 31},
		{Valid: false, CycleDays: 90},
		{Valid: true, CycleDays: -3},
	}
	assert.Equal(t, 30, SuggestCycleLength(cycles, 28))
	assert.Equal(t, 28, SuggestCycleLength(nil, 28))
}

func TestPredict(t *testing.T) {
	assert.Equal(t, "2025-01-29", Predict(date(t, "2025-01-01"), 28))
}
