package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aanand-mishra/student-portal/internal/dashboard"
	"github.com/aanand-mishra/student-portal/internal/ordering"
	"github.com/aanand-mishra/student-portal/internal/report"
	"github.com/aanand-mishra/student-portal/internal/resource"
	"github.com/aanand-mishra/student-portal/internal/types"
)

type classScreen struct {
	*dashboard.ClassAdmin
}

func (s *classScreen) title() string { return "Class Admin Dashboard" }

func (s *classScreen) help() []string {
	return []string{
		"add               add a student (students tab) or a mark (marks tab)",
		"delete ROW        delete a student (students tab)",
		"date YYYY-MM-DD   change the attendance date",
		"mark ROW STATUS   set present, absent or not-marked (p, a, n)",
		"export FILE.xlsx  write students, attendance and marks to a workbook",
	}
}

func (s *classScreen) render(w io.Writer) {
	switch s.Active() {
	case dashboard.TabStudents:
		st := s.Students().Snapshot()
		banner(w, st.Loading, st.Error, st.Notice)
		rows := make([][]string, 0, len(st.Items))
		for _, stu := range st.Items {
			rows = append(rows, []string{stu.StudentID, stu.FullName, stu.Email})
		}
		table(w, "No students found.", []string{"Student ID", "Full Name", "Email"}, rows)

	case dashboard.TabAttendance:
		st := s.Attendance().Snapshot()
		fmt.Fprintf(w, "Date: %s\n", s.Date())
		banner(w, st.Loading, st.Error, st.Notice)
		rows := make([][]string, 0, len(st.Items))
		for _, e := range st.Items {
			rows = append(rows, []string{e.StudentID, e.FullName, string(e.Status)})
		}
		table(w, "No students found.", []string{"Student ID", "Full Name", "Status"}, rows)

	case dashboard.TabMarks:
		st := s.Marks().Snapshot()
		if roster := s.MarkStudents().Snapshot(); roster.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", roster.Error)
		}
		if subj := s.SubjectOptions().Snapshot(); subj.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", subj.Error)
		}
		banner(w, st.Loading, st.Error, st.Notice)
		rows := make([][]string, 0, len(st.Items))
		for _, m := range st.Items {
			rows = append(rows, []string{
				m.Student.FullName,
				m.Subject.Name,
				fmt.Sprintf("%d/%d", m.Mark, types.MaxMark),
			})
		}
		table(w, "No marks recorded.", []string{"Student", "Subject", "Mark"}, rows)
	}
}

func (s *classScreen) exec(ctx context.Context, c *Console, cmd string, args []string) (bool, error) {
	switch cmd {
	case "add":
		return true, s.add(ctx, c)
	case "delete", "remove":
		ref, err := oneArg(args, cmd+" ROW")
		if err != nil {
			return true, err
		}
		ctrl := s.Students()
		if ctrl == nil {
			return true, dashboard.ErrTabInactive
		}
		row, err := pick(ctrl.Snapshot().Items, ref, func(st types.Student) string { return st.ID })
		if err != nil {
			return true, err
		}
		return true, ctrl.Delete(ctx, row.ID, c.confirm)
	case "date":
		date, err := oneArg(args, "date YYYY-MM-DD")
		if err != nil {
			return true, err
		}
		return true, s.SetDate(ctx, date)
	case "mark":
		return true, s.mark(ctx, args)
	case "export":
		path, err := oneArg(args, "export FILE.xlsx")
		if err != nil {
			return true, err
		}
		return true, s.export(ctx, c, path)
	}
	return false, nil
}

var statusShorthand = map[string]types.AttendanceStatus{
	"p": types.StatusPresent,
	"a": types.StatusAbsent,
	"n": types.StatusNotMarked,
}

func (s *classScreen) mark(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("usage: mark ROW present|absent|not-marked")
	}
	ctrl := s.Attendance()
	if ctrl == nil {
		return dashboard.ErrTabInactive
	}
	row, err := pick(ctrl.Snapshot().Items, args[0], func(e types.AttendanceEntry) string { return e.ID })
	if err != nil {
		return err
	}
	status := types.AttendanceStatus(strings.ToLower(args[1]))
	if full, ok := statusShorthand[string(status)]; ok {
		status = full
	}
	return s.MarkAttendance(ctx, row.ID, status)
}

func (s *classScreen) add(ctx context.Context, c *Console) error {
	switch s.Active() {
	case dashboard.TabStudents:
		form, err := c.fill([]field{
			{name: dashboard.FieldStudentID, label: "Student ID"},
			{name: dashboard.FieldFullName, label: "Full name"},
			{name: dashboard.FieldEmail, label: "Email"},
			{name: dashboard.FieldPassword, label: "Password", secret: true},
		})
		if err != nil {
			return err
		}
		return s.Students().Submit(ctx, form)

	case dashboard.TabMarks:
		students := s.MarkStudents().Snapshot().Items
		names, ids := make([]string, len(students)), make([]string, len(students))
		for i, st := range students {
			names[i], ids[i] = st.FullName+" ("+st.StudentID+")", st.ID
		}
		studentID, err := c.choose("Student", names, ids)
		if err != nil {
			return err
		}

		subjects := s.SubjectOptions().Snapshot().Items
		names, ids = make([]string, len(subjects)), make([]string, len(subjects))
		for i, sub := range subjects {
			names[i], ids[i] = sub.Name, sub.ID
		}
		subjectID, err := c.choose("Subject", names, ids)
		if err != nil {
			return err
		}

		mark, err := c.readLine(fmt.Sprintf("Mark (0-%d): ", types.MaxMark))
		if err != nil {
			return err
		}
		return s.Marks().Submit(ctx, resource.Form{
			dashboard.FieldMarkStudent: studentID,
			dashboard.FieldMarkSubject: subjectID,
			dashboard.FieldMark:        mark,
		})
	}
	return dashboard.ErrTabInactive
}

// export reads the three class tables straight from the API so the
// workbook does not depend on which tab is open.
func (s *classScreen) export(ctx context.Context, c *Console, path string) error {
	date := s.Date()
	if date == "" {
		date = dashboard.Now().Format(ordering.DateLayout)
	}

	students, err := c.api.Students(ctx)
	if err != nil {
		c.printf("Export failed: could not load students.\n")
		return err
	}
	entries, err := c.api.Attendance(ctx, date)
	if err != nil {
		c.printf("Export failed: could not load attendance.\n")
		return err
	}
	marks, err := c.api.Marks(ctx)
	if err != nil {
		c.printf("Export failed: could not load marks.\n")
		return err
	}

	err = report.Save(report.Class{
		Students:   ordering.StudentsByName(students),
		Date:       date,
		Attendance: dashboard.NormalizeRoster(entries),
		Marks:      marks,
	}, path)
	if err != nil {
		c.printf("Export failed: %v\n", err)
		return err
	}
	c.printf("Exported to %s\n", path)
	return nil
}
