// Package rollup computes the percentages and tallies shown on the
// dashboards from raw score and attendance records.
//
// Every function is pure and total: empty input or a zero denominator
// yields 0, never an error.
package rollup

import (
	"math"

	"github.com/aanand-mishra/student-portal/internal/types"
)

// Score is one {score, maxScore} pair.
type Score struct {
	Value int
	Max   int
}

// FromScores converts performance rows into Score pairs.
func FromScores(rows []types.Score) []Score {
	out := make([]Score, 0, len(rows))
	for _, r := range rows {
		out = append(out, Score{Value: r.Mark, Max: r.TotalMark})
	}
	return out
}

// Round rounds half-up: 84.5 becomes 85, 84.49 becomes 84.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func ratio(value, max float64) float64 {
	if max == 0 {
		return 0
	}
	return value / max * 100
}

// ItemPercentage is round(value/max*100) for a single score.
func ItemPercentage(s Score) int {
	return Round(ratio(float64(s.Value), float64(s.Max)))
}

// AveragePercentage is the rounded mean of the per-item percentages.
func AveragePercentage(scores []Score) int {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += ratio(float64(s.Value), float64(s.Max))
	}
	return Round(sum / float64(len(scores)))
}

// Totals sums the obtained and maximum marks.
func Totals(scores []Score) (obtained, max int) {
	for _, s := range scores {
		obtained += s.Value
		max += s.Max
	}
	return obtained, max
}

// OverallPercentage is round(sum(value)/sum(max)*100).
func OverallPercentage(scores []Score) int {
	obtained, max := Totals(scores)
	return Round(ratio(float64(obtained), float64(max)))
}

// Tally is the attendance roll-up displayed on the student card.
type Tally struct {
	Present int
	Total   int
}

// AttendanceTally counts present records against all records.
func AttendanceTally(records []types.AttendanceRecord) Tally {
	t := Tally{Total: len(records)}
	for _, r := range records {
		if r.Status == types.StatusPresent {
			t.Present++
		}
	}
	return t
}

// AttendancePercentage is round(present/total*100). The client shows the
// percentage reported by the API; this is what the API reports.
func AttendancePercentage(t Tally) int {
	return Round(ratio(float64(t.Present), float64(t.Total)))
}
