package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aanand-mishra/student-portal/internal/types"
)

func TestSaveAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "7a.xlsx")
	c := Class{
		Students: []types.Student{
			{ID: "1", StudentID: "S-1", FullName: "Jane Roe", Email: "jane@school.test"},
		},
		Date: "2024-01-03",
		Attendance: []types.AttendanceEntry{
			{ID: "1", StudentID: "S-1", FullName: "Jane Roe", Status: types.StatusPresent},
			{ID: "2", StudentID: "S-2", FullName: "Amy Poe"},
		},
		Marks: []types.Mark{
			{
				ID:      "m1",
				Student: types.StudentRef{ID: "1", FullName: "Jane Roe", StudentID: "S-1"},
				Subject: types.SubjectRef{ID: "x", Name: "Maths"},
				Mark:    88,
			},
		},
	}
	require.NoError(t, Save(c, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetStudents, SheetAttendance, SheetMarks}, f.GetSheetList())

	rows, err := f.GetRows(SheetStudents)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Student ID", "Full Name", "Email"},
		{"S-1", "Jane Roe", "jane@school.test"},
	}, rows)

	rows, err = f.GetRows(SheetAttendance)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Status 2024-01-03", rows[0][2])
	assert.Equal(t, []string{"S-2", "Amy Poe", "not-marked"}, rows[2])

	rows, err = f.GetRows(SheetMarks)
	require.NoError(t, err)
	assert.Equal(t, []string{"S-1", "Jane Roe", "Maths", "88", "100"}, rows[1])
}

func TestBuildEmpty(t *testing.T) {
	f, err := Build(Class{})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetMarks)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
