package console

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/aanand-mishra/student-portal/internal/dashboard"
)

type studentScreen struct {
	*dashboard.Student
}

func (s *studentScreen) title() string { return "Student Dashboard" }

func (s *studentScreen) help() []string { return nil }

func (s *studentScreen) exec(context.Context, *Console, string, []string) (bool, error) {
	return false, nil
}

func (s *studentScreen) render(w io.Writer) {
	s.renderCards(w)
	fmt.Fprintln(w)

	switch s.Active() {
	case dashboard.TabAttendance:
		st := s.History().Snapshot()
		banner(w, st.Loading, st.Error, "")
		rows := make([][]string, 0, len(st.Value.Records))
		for _, r := range st.Value.Records {
			rows = append(rows, []string{r.Date, r.Day, string(r.Status)})
		}
		table(w, "No attendance records found.", []string{"Date", "Day", "Status"}, rows)
		if st.Value.Skipped > 0 {
			fmt.Fprintf(w, "%d records skipped (invalid date)\n", st.Value.Skipped)
		}

	case dashboard.TabPerformance:
		st := s.Academic().Snapshot()
		banner(w, st.Loading, st.Error, "")
		rows := make([][]string, 0, len(st.Value.Rows))
		for _, r := range st.Value.Rows {
			rows = append(rows, []string{
				r.Subject,
				strconv.Itoa(r.Mark),
				strconv.Itoa(r.TotalMark),
				strconv.Itoa(r.Percent) + "%",
			})
		}
		table(w, "No performance records found.", []string{"Subject", "Mark", "Total", "Percent"}, rows)
		if len(rows) > 0 {
			fmt.Fprintf(w, "Average: %d%%\n", st.Value.Average)
		}
	}
}

func (s *studentScreen) renderCards(w io.Writer) {
	if info := s.Info().Snapshot(); info.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", info.Error)
	} else if info.Loaded {
		fmt.Fprintf(w, "Name: %s  Class: %s  Roll No: %s\n", info.Value.Name, info.Value.Class, info.Value.RollNo)
	}

	if att := s.AttendanceCard().Snapshot(); att.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", att.Error)
	} else if att.Loaded {
		fmt.Fprintf(w, "Attendance: %d%%  (Present %d out of %d days)\n",
			att.Value.Percent, att.Value.Present, att.Value.Total)
	}

	if perf := s.PerformanceCard().Snapshot(); perf.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", perf.Error)
	} else if perf.Loaded {
		fmt.Fprintf(w, "Performance: %d%%  (%d out of %d marks)\n",
			perf.Value.Percent, perf.Value.Obtained, perf.Value.Max)
	}
}
