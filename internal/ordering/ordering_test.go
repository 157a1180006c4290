package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-portal/internal/types"
)

func TestNames(t *testing.T) {
	names := []string{"Bob", "alice", "Amy"}
	Names(names)
	assert.Equal(t, []string{"alice", "Amy", "Bob"}, names)
}

func TestStudentsByNameIsStable(t *testing.T) {
	students := []types.Student{
		{ID: "1", FullName: "Zed Moore"},
		{ID: "2", FullName: "Jane Roe"},
		{ID: "3", FullName: "adam Smith"},
		{ID: "4", FullName: "Jane Roe"},
	}
	got := StudentsByName(students)

	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"3", "2", "4", "1"}, ids)
}

func TestScoresBySubject(t *testing.T) {
	scores := ScoresBySubject([]types.Score{
		{Subject: "Science"}, {Subject: "english"}, {Subject: "Mathematics"},
	})
	assert.Equal(t, "english", scores[0].Subject)
	assert.Equal(t, "Mathematics", scores[1].Subject)
	assert.Equal(t, "Science", scores[2].Subject)
}

func TestByDateDesc(t *testing.T) {
	records := ByDateDesc([]types.AttendanceRecord{
		{ID: "a", Date: "2024-01-01"},
		{ID: "b", Date: "2024-01-03"},
	})
	assert.Equal(t, "2024-01-03", records[0].Date)
	assert.Equal(t, "2024-01-01", records[1].Date)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "rfc3339 utc", in: "2024-01-03T10:00:00Z", want: "2024-01-03"},
		{name: "millis", in: "2024-01-03T10:00:00.000Z", want: "2024-01-03"},
		{name: "offset crosses midnight", in: "2024-01-03T01:00:00+05:00", want: "2024-01-02"},
		{name: "bare date", in: "2024-02-29", want: "2024-02-29"},
		{name: "garbage", in: "yesterday", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(DateLayout))
		})
	}
}

func TestNormalizeAttendance(t *testing.T) {
	out, skipped := NormalizeAttendance([]types.AttendanceRecord{
		{ID: "1", Date: "2024-01-01T08:00:00.000Z", Status: types.StatusPresent},
		{ID: "2", Date: "not a date", Status: types.StatusAbsent},
		{ID: "3", Date: "2024-01-03T08:00:00.000Z", Status: types.StatusAbsent},
	})

	assert.Equal(t, 1, skipped)
	require.Len(t, out, 2)
	assert.Equal(t, types.AttendanceRecord{ID: "3", Date: "2024-01-03", Status: types.StatusAbsent, Day: "Wednesday"}, out[0])
	assert.Equal(t, types.AttendanceRecord{ID: "1", Date: "2024-01-01", Status: types.StatusPresent, Day: "Monday"}, out[1])
}
