// Package report exports the class-admin tables to an .xlsx workbook.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/aanand-mishra/student-portal/internal/types"
)

// Sheet names, in workbook order.
const (
	SheetStudents   = "Students"
	SheetAttendance = "Attendance"
	SheetMarks      = "Marks"
)

// Class is everything one export holds. Date is the attendance date
// shown in the attendance sheet's header.
type Class struct {
	Students   []types.Student
	Date       string
	Attendance []types.AttendanceEntry
	Marks      []types.Mark
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// Build lays the three tables out on their own sheets.
func Build(c Class) (*excelize.File, error) {
	f := excelize.NewFile()

	// NewFile starts with "Sheet1"; rename it instead of leaving it empty.
	if err := f.SetSheetName("Sheet1", SheetStudents); err != nil {
		f.Close()
		return nil, fmt.Errorf("report.Build: %w", err)
	}
	for _, name := range []string{SheetAttendance, SheetMarks} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("report.Build: new sheet %s: %w", name, err)
		}
	}

	students := make([][]any, 0, len(c.Students))
	for _, s := range c.Students {
		students = append(students, []any{s.StudentID, s.FullName, s.Email})
	}

	attendance := make([][]any, 0, len(c.Attendance))
	for _, e := range c.Attendance {
		status := e.Status
		if status == "" {
			status = types.StatusNotMarked
		}
		attendance = append(attendance, []any{e.StudentID, e.FullName, string(status)})
	}

	marks := make([][]any, 0, len(c.Marks))
	for _, m := range c.Marks {
		marks = append(marks, []any{m.Student.StudentID, m.Student.FullName, m.Subject.Name, m.Mark, types.MaxMark})
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{SheetStudents, []string{"Student ID", "Full Name", "Email"}, students},
		{SheetAttendance, []string{"Student ID", "Full Name", "Status " + c.Date}, attendance},
		{SheetMarks, []string{"Student ID", "Full Name", "Subject", "Mark", "Out Of"}, marks},
	}
	for _, s := range sheets {
		if err := writeRows(f, s.name, s.header, s.rows); err != nil {
			f.Close()
			return nil, fmt.Errorf("report.Build: sheet %s: %w", s.name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Save builds the workbook and writes it to path.
func Save(c Class, path string) error {
	f, err := Build(c)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report.Save: %w", err)
	}
	return nil
}
