package rollup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aanand-mishra/student-portal/internal/types"
)

func TestAveragePercentage(t *testing.T) {
	tests := []struct {
		name   string
		scores []Score
		want   int
	}{
		{name: "empty", want: 0},
		{name: "single", scores: []Score{{Value: 85, Max: 100}}, want: 85},
		{name: "mean of items", scores: []Score{{Value: 90, Max: 100}, {Value: 40, Max: 50}}, want: 85},
		{name: "rounds half up", scores: []Score{{Value: 1, Max: 2}, {Value: 1, Max: 1}, {Value: 0, Max: 1}, {Value: 1, Max: 1}}, want: 63},
		{name: "zero max item counts as 0", scores: []Score{{Value: 5, Max: 0}, {Value: 100, Max: 100}}, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AveragePercentage(tt.scores))
		})
	}
}

func TestOverallPercentage(t *testing.T) {
	tests := []struct {
		name   string
		scores []Score
		want   int
	}{
		{name: "empty", want: 0},
		{name: "zero denominator", scores: []Score{{Value: 0, Max: 0}}, want: 0},
		{name: "sum ratio", scores: []Score{{Value: 90, Max: 100}, {Value: 10, Max: 50}}, want: 67},
		{name: "perfect", scores: []Score{{Value: 100, Max: 100}, {Value: 100, Max: 100}}, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallPercentage(tt.scores))
		})
	}
}

func TestOverallPercentageBounded(t *testing.T) {
	for max := 1; max <= 120; max += 7 {
		var scores []Score
		for v := 0; v <= max; v += 3 {
			scores = append(scores, Score{Value: v, Max: max})
			got := OverallPercentage(scores)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 85, Round(84.5))
	assert.Equal(t, 84, Round(84.49))
	assert.Equal(t, 0, Round(0))
	assert.Equal(t, 100, Round(99.5))
}

func TestTotals(t *testing.T) {
	obtained, max := Totals(FromScores([]types.Score{
		{Subject: "Mathematics", Mark: 70, TotalMark: 100},
		{Subject: "History", Mark: 55, TotalMark: 100},
	}))
	assert.Equal(t, 125, obtained)
	assert.Equal(t, 200, max)
}

func TestAttendanceTally(t *testing.T) {
	records := []types.AttendanceRecord{
		{Date: "2024-01-01", Status: types.StatusPresent},
		{Date: "2024-01-02", Status: types.StatusAbsent},
		{Date: "2024-01-03", Status: types.StatusPresent},
	}
	tally := AttendanceTally(records)
	assert.Equal(t, Tally{Present: 2, Total: 3}, tally)
	assert.Equal(t, 67, AttendancePercentage(tally))
	assert.Equal(t, 0, AttendancePercentage(AttendanceTally(nil)))
}
