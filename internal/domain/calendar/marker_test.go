package calendar

import (
	"testing"
	"time"

	"calendrette/internal/domain/period"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(period.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestGenerate_ThreeMarkersPerCycle(t *testing.T) {
	g := NewGenerator()
	cycles := period.DeriveAll([]period.Record{
		{StartDate: "2025-02-01", PredictedDate: "2025-03-01"},
		{StartDate: "2025-01-01", PredictedDate: "2025-01-29"},
	})

	markers := g.Generate(cycles, time.Time{})
	require.Len(t, markers, 6)

	want := []Marker{
		{Key: "rules-1", Dates: []time.Time{day("2025-01-01")}, Highlight: Highlight{Color: "red", FillMode: FillSolid, ContentClass: PastClass}, Label: "Period start"},
		{Key: "prediction-1", Dates: []time.Time{day("2025-01-29")}, Highlight: Highlight{Color: "pink", FillMode: FillOutline, ContentClass: PastClass}, Label: "Predicted next period"},
		{Key: "ovulation-1", Dates: []time.Time{day("2025-01-15")}, Highlight: Highlight{Color: "green", FillMode: FillSolid, ContentClass: PastClass}, Label: "Peak ovulation"},
	}
	if diff := cmp.Diff(want, markers[3:]); diff != "" {
		t.Errorf("markers for second cycle mismatch (-want +got):\n%s", diff)
	}

	// The head cycle is the default reference, so it is not past itself.
	for _, m := range markers[:3] {
		assert.False(t, m.Past(), m.Key)
	}
}

func TestGenerate_ExplicitReference(t *testing.T) {
	g := NewGenerator()
	cycles := period.DeriveAll([]period.Record{
		{StartDate: "2025-02-01", PredictedDate: "2025-03-01"},
		{StartDate: "2025-01-01", PredictedDate: "2025-01-29"},
	})

	markers := g.Generate(cycles, day("2025-03-15"))
	for _, m := range markers {
		assert.True(t, m.Past(), m.Key)
	}

	markers = g.Generate(cycles, day("2024-12-01"))
	for _, m := range markers {
		assert.False(t, m.Past(), m.Key)
	}
}

func TestGenerate_SkipsInvalidCycles(t *testing.T) {
	g := NewGenerator()
	cycles := period.DeriveAll([]period.Record{
		{StartDate: "garbage", PredictedDate: "2025-03-01"},
		{StartDate: "2025-01-01", PredictedDate: "2025-01-29"},
	})

	markers := g.Generate(cycles, time.Time{})
	require.Len(t, markers, 3)
	assert.Equal(t, "rules-1", markers[0].Key)
	assert.False(t, markers[0].Past())
}

func TestGenerate_EmptyUsesClock(t *testing.T) {
	called := false
	g := &Generator{Now: func() time.Time {
		called = true
		return day("2025-01-01")
	}}

	assert.Empty(t, g.Generate(nil, time.Time{}))
	assert.True(t, called)
}

func TestOnDay(t *testing.T) {
	g := NewGenerator()
	markers := g.Generate(period.DeriveAll([]period.Record{
		{StartDate: "2025-01-01", PredictedDate: "2025-01-29"},
	}), time.Time{})

	got := OnDay(markers, day("2025-01-15").Add(13*time.Hour))
	require.Len(t, got, 1)
	assert.Equal(t, "ovulation-0", got[0].Key)
	assert.Empty(t, OnDay(markers, day("2025-01-02")))
}
