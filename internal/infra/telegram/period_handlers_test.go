package telegram

import (
	"fmt"
	"testing"
	"time"

	"calendrette/internal/domain/period"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddArgs(t *testing.T) {
	start, predicted, err := parseAddArgs([]string{"2025-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", start.Format(period.DateLayout))
	assert.Empty(t, predicted)

	_, predicted, err = parseAddArgs([]string{"2025-01-01", "2025-01-29"})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-29", predicted)

	for _, args := range [][]string{nil, {"a", "b", "c"}, {"01/01/2025"}, {"2025-01-01", "soon"}} {
		_, _, err := parseAddArgs(args)
		assert.Error(t, err, "%v", args)
	}
}

func TestFormatCycles(t *testing.T) {
	assert.Equal(t, "No periods recorded yet.", formatCycles(nil))

	cycles := period.DeriveAll([]period.Record{
		{ID: "7", StartDate: "2025-01-01", PredictedDate: "2025-01-29"},
		{ID: "8", StartDate: "garbage", PredictedDate: "2025-01-29"},
	})
	out := formatCycles(cycles)
	assert.Contains(t, out, "2025-01-01 → 2025-01-29 (28 days), ovulation 2025-01-15 [id 7]")
	assert.Contains(t, out, "8: unreadable dates")
}

func TestNextSummary(t *testing.T) {
	cycles := period.DeriveAll([]period.Record{
		{ID: "bad", StartDate: "?", PredictedDate: "?"},
		{ID: "7", StartDate: "2025-01-01", PredictedDate: "2025-01-29"},
	})
	out := nextSummary(cycles, time.Date(2025, 1, 20, 22, 0, 0, 0, time.UTC))
	assert.Equal(t, "Next period: 2025-01-29 (in 9 days).\nPeak ovulation: 2025-01-15 (5 days ago).", out)
	assert.Equal(t, "No periods recorded yet.", nextSummary(nil, time.Now()))
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, userMessage(period.ErrAuthenticationRequired), "signed-in")
	assert.Contains(t, userMessage(fmt.Errorf("%w: bad date", period.ErrValidation)), "bad date")
	assert.Contains(t, userMessage(fmt.Errorf("boom")), "Something went wrong")
}
