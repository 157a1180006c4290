package dashboard

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aanand-mishra/student-portal/internal/ordering"
	"github.com/aanand-mishra/student-portal/internal/resource"
	"github.com/aanand-mishra/student-portal/internal/types"
)

// ClassAdminAPI is the slice of the API the class-admin dashboard calls.
type ClassAdminAPI interface {
	Students(ctx context.Context) ([]types.Student, error)
	CreateStudent(ctx context.Context, s types.NewStudent) error
	DeleteStudent(ctx context.Context, id string) error
	Attendance(ctx context.Context, date string) ([]types.AttendanceEntry, error)
	MarkAttendance(ctx context.Context, m types.MarkAttendance) error
	Marks(ctx context.Context) ([]types.Mark, error)
	CreateMark(ctx context.Context, m types.NewMark) error
	Subjects(ctx context.Context) ([]types.Subject, error)
}

// Form field names of the class-admin forms.
const (
	FieldStudentID = "studentId"
	FieldFullName  = "fullName"
	FieldEmail     = "email"
	FieldPassword  = "password"

	FieldMarkStudent = "studentId"
	FieldMarkSubject = "subjectId"
	FieldMark        = "mark"
)

const (
	MsgLoadStudents   = "Failed to load students. Please try again."
	MsgMarkRange      = "Marks must be a number between 0 and 100"
	MsgInvalidDate    = "Date must be in YYYY-MM-DD format"
	MsgInvalidStatus  = "Status must be present, absent or not-marked"
	MsgMarkAttendance = "Failed to mark attendance. Please try again."
)

// Now is the clock used for the attendance tab's default date.
var Now = time.Now

// ClassAdmin manages one class: its students, attendance, and marks.
type ClassAdmin struct {
	api ClassAdminAPI
	tabs

	students *resource.Controller[types.Student]

	attendance *resource.Controller[types.AttendanceEntry]
	dateMu     sync.Mutex
	date       string

	marks           *resource.Controller[types.Mark]
	markStudents    *resource.Controller[types.Student]
	subjectsOptions *resource.Controller[types.Subject]
}

// NewClassAdmin returns the dashboard with no tab mounted yet.
func NewClassAdmin(api ClassAdminAPI) *ClassAdmin {
	return &ClassAdmin{
		api:  api,
		tabs: tabs{order: []Tab{TabStudents, TabAttendance, TabMarks}},
	}
}

// Open mounts the default tab.
func (d *ClassAdmin) Open(ctx context.Context) error {
	return d.Select(ctx, TabStudents)
}

// Close unmounts every controller.
func (d *ClassAdmin) Close() {
	d.unmountAll()
}

// Select switches to tab and fetches its data.
func (d *ClassAdmin) Select(ctx context.Context, tab Tab) error {
	if err := d.check(tab); err != nil {
		return err
	}
	d.students, d.attendance, d.marks, d.markStudents, d.subjectsOptions = nil, nil, nil, nil, nil

	switch tab {
	case TabStudents:
		d.students = d.newStudents()
		return d.swap(ctx, tab, d.students)
	case TabAttendance:
		d.setDate(Now().Format(ordering.DateLayout))
		d.attendance = d.newAttendance()
		return d.swap(ctx, tab, d.attendance)
	default:
		d.markStudents = d.newRoster("mark-students")
		d.subjectsOptions = d.newSubjectOptions()
		d.marks = d.newMarks()
		return d.swap(ctx, tab, d.markStudents, d.subjectsOptions, d.marks)
	}
}

// Students is the students tab controller; nil unless that tab is active.
func (d *ClassAdmin) Students() *resource.Controller[types.Student] { return d.students }

// Attendance is the attendance tab controller; nil unless that tab is active.
func (d *ClassAdmin) Attendance() *resource.Controller[types.AttendanceEntry] { return d.attendance }

// Marks is the marks tab controller; nil unless that tab is active.
func (d *ClassAdmin) Marks() *resource.Controller[types.Mark] { return d.marks }

// MarkStudents lists the students offered by the marks form.
func (d *ClassAdmin) MarkStudents() *resource.Controller[types.Student] { return d.markStudents }

// SubjectOptions lists the subjects offered by the marks form.
func (d *ClassAdmin) SubjectOptions() *resource.Controller[types.Subject] { return d.subjectsOptions }

func (d *ClassAdmin) newRoster(name string) *resource.Controller[types.Student] {
	return resource.New(resource.Config[types.Student]{
		Name:      name,
		Fetch:     d.api.Students,
		Normalize: ordering.StudentsByName,
		Messages:  resource.Messages{Load: MsgLoadStudents},
	})
}

func (d *ClassAdmin) newStudents() *resource.Controller[types.Student] {
	return resource.New(resource.Config[types.Student]{
		Name:      "students",
		Fetch:     d.api.Students,
		Normalize: ordering.StudentsByName,
		Required:  []string{FieldStudentID, FieldFullName, FieldEmail, FieldPassword},
		Create: func(ctx context.Context, f resource.Form) error {
			return d.api.CreateStudent(ctx, types.NewStudent{
				StudentID: f[FieldStudentID],
				FullName:  f[FieldFullName],
				Email:     f[FieldEmail],
				Password:  f[FieldPassword],
			})
		},
		Remove: d.api.DeleteStudent,
		Messages: resource.Messages{
			Load:          MsgLoadStudents,
			Create:        "Failed to add student. Please try again.",
			Delete:        "Failed to delete student. Please try again.",
			ConfirmDelete: "Are you sure you want to delete this student?",
		},
	})
}

// Date returns the attendance tab's date.
func (d *ClassAdmin) Date() string {
	d.dateMu.Lock()
	defer d.dateMu.Unlock()
	return d.date
}

func (d *ClassAdmin) setDate(date string) {
	d.dateMu.Lock()
	d.date = date
	d.dateMu.Unlock()
}

// NormalizeRoster defaults missing statuses to not-marked and sorts by name.
func NormalizeRoster(entries []types.AttendanceEntry) []types.AttendanceEntry {
	for i := range entries {
		if !entries[i].Status.Valid() {
			entries[i].Status = types.StatusNotMarked
		}
	}
	return ordering.EntriesByName(entries)
}

func (d *ClassAdmin) newAttendance() *resource.Controller[types.AttendanceEntry] {
	return resource.New(resource.Config[types.AttendanceEntry]{
		Name: "attendance",
		Fetch: func(ctx context.Context) ([]types.AttendanceEntry, error) {
			return d.api.Attendance(ctx, d.Date())
		},
		Normalize: NormalizeRoster,
		Messages:  resource.Messages{Load: MsgLoadStudents},
	})
}

// SetDate changes the attendance date and reloads the roster for it.
func (d *ClassAdmin) SetDate(ctx context.Context, date string) error {
	c := d.attendance
	if c == nil {
		return ErrTabInactive
	}
	date = strings.TrimSpace(date)
	if err := resource.CheckVar("date", date, "required,datetime=2006-01-02", MsgInvalidDate); err != nil {
		c.Fail(MsgInvalidDate)
		return err
	}
	d.setDate(date)
	return c.Refresh(ctx)
}

// MarkAttendance records status for the student with document id on the
// tab's date, then reloads the roster.
func (d *ClassAdmin) MarkAttendance(ctx context.Context, id string, status types.AttendanceStatus) error {
	c := d.attendance
	if c == nil {
		return ErrTabInactive
	}
	if !status.Valid() {
		c.Fail(MsgInvalidStatus)
		return resource.Invalid(MsgInvalidStatus, "status")
	}
	date := d.Date()
	return c.Do(ctx, resource.Action{
		Name:    "mark-attendance",
		Fail:    MsgMarkAttendance,
		Refresh: true,
		Run: func(ctx context.Context) error {
			return d.api.MarkAttendance(ctx, types.MarkAttendance{StudentID: id, Status: status, Date: date})
		},
	})
}

func (d *ClassAdmin) newSubjectOptions() *resource.Controller[types.Subject] {
	return resource.New(resource.Config[types.Subject]{
		Name:      "subject-options",
		Fetch:     d.api.Subjects,
		Normalize: ordering.SubjectsByName,
		Messages:  resource.Messages{Load: "Failed to load subjects. Please try again."},
	})
}

// checkMark rejects a mark that is not an integer in [0, MaxMark].
func checkMark(f resource.Form) error {
	n, err := strconv.Atoi(strings.TrimSpace(f[FieldMark]))
	if err != nil {
		return resource.Invalid(MsgMarkRange, FieldMark)
	}
	return resource.CheckVar(FieldMark, n, "gte=0,lte="+strconv.Itoa(types.MaxMark), MsgMarkRange)
}

func (d *ClassAdmin) newMarks() *resource.Controller[types.Mark] {
	return resource.New(resource.Config[types.Mark]{
		Name:     "marks",
		Fetch:    d.api.Marks,
		Required: []string{FieldMarkStudent, FieldMarkSubject, FieldMark},
		Check:    checkMark,
		Create: func(ctx context.Context, f resource.Form) error {
			n, _ := strconv.Atoi(strings.TrimSpace(f[FieldMark]))
			return d.api.CreateMark(ctx, types.NewMark{
				StudentID: f[FieldMarkStudent],
				SubjectID: f[FieldMarkSubject],
				Mark:      n,
			})
		},
		Messages: resource.Messages{
			Load:   "Failed to load marks. Please try again.",
			Create: "Failed to add mark. Please try again.",
		},
	})
}
