package dashboard

import (
	"context"
	"log/slog"

	"github.com/aanand-mishra/student-portal/internal/ordering"
	"github.com/aanand-mishra/student-portal/internal/resource"
	"github.com/aanand-mishra/student-portal/internal/rollup"
	"github.com/aanand-mishra/student-portal/internal/types"
)

// StudentAPI is the slice of the API the student dashboard calls.
type StudentAPI interface {
	StudentInfo(ctx context.Context) (types.StudentInfo, error)
	StudentAttendance(ctx context.Context) (types.AttendanceSummary, error)
	StudentPerformance(ctx context.Context) (types.Performance, error)
}

// AttendanceHistory is the normalized attendance tab content.
type AttendanceHistory struct {
	Records []types.AttendanceRecord
	// Skipped counts records dropped for an unparseable date.
	Skipped int
}

// AttendanceCard is the "Present X out of Y days" card.
type AttendanceCard struct {
	Percent int
	Present int
	Total   int
}

// NewAttendanceCard builds the card. The percentage is the API's; the
// counts are derived from the records.
func NewAttendanceCard(s types.AttendanceSummary) AttendanceCard {
	t := rollup.AttendanceTally(s.Records)
	return AttendanceCard{Percent: s.Percent, Present: t.Present, Total: t.Total}
}

// PerformanceCard is the "X out of Y marks" card.
type PerformanceCard struct {
	Obtained int
	Max      int
	Percent  int
}

// NewPerformanceCard builds the card from the overall roll-up.
func NewPerformanceCard(p types.Performance) PerformanceCard {
	scores := rollup.FromScores(p.Scores)
	obtained, max := rollup.Totals(scores)
	return PerformanceCard{Obtained: obtained, Max: max, Percent: rollup.OverallPercentage(scores)}
}

// ScoreRow is one row of the academic performance table.
type ScoreRow struct {
	types.Score
	Percent int
}

// AcademicPerformance is the performance tab content.
type AcademicPerformance struct {
	Average int
	Rows    []ScoreRow
}

// NewAcademicPerformance sorts the scores by subject and computes the
// per-row and average percentages.
func NewAcademicPerformance(p types.Performance) AcademicPerformance {
	sorted := ordering.ScoresBySubject(append([]types.Score(nil), p.Scores...))
	rows := make([]ScoreRow, 0, len(sorted))
	for _, s := range sorted {
		rows = append(rows, ScoreRow{Score: s, Percent: rollup.ItemPercentage(rollup.Score{Value: s.Mark, Max: s.TotalMark})})
	}
	return AcademicPerformance{
		Average: rollup.AveragePercentage(rollup.FromScores(sorted)),
		Rows:    rows,
	}
}

// Student is the read-only dashboard of the logged-in student: three
// cards that are always shown and two tabs.
type Student struct {
	api StudentAPI
	tabs

	info        *resource.Record[types.StudentInfo]
	attendance  *resource.Record[AttendanceCard]
	performance *resource.Record[PerformanceCard]

	history  *resource.Record[AttendanceHistory]
	academic *resource.Record[AcademicPerformance]
}

// NewStudent returns the dashboard with nothing mounted yet.
func NewStudent(api StudentAPI) *Student {
	return &Student{
		api:  api,
		tabs: tabs{order: []Tab{TabAttendance, TabPerformance}},
	}
}

// Open mounts the cards and the default tab.
func (d *Student) Open(ctx context.Context) error {
	d.info = resource.NewRecord("student-info", d.api.StudentInfo, nil,
		"Could not load student information")
	d.attendance = resource.NewRecord("attendance-card", func(ctx context.Context) (AttendanceCard, error) {
		s, err := d.api.StudentAttendance(ctx)
		if err != nil {
			return AttendanceCard{}, err
		}
		return NewAttendanceCard(s), nil
	}, nil, "Could not load attendance information")
	d.performance = resource.NewRecord("performance-card", func(ctx context.Context) (PerformanceCard, error) {
		p, err := d.api.StudentPerformance(ctx)
		if err != nil {
			return PerformanceCard{}, err
		}
		return NewPerformanceCard(p), nil
	}, nil, "Could not load performance information")

	var first error
	for _, m := range []mountable{d.info, d.attendance, d.performance} {
		if err := m.Mount(ctx); err != nil && first == nil {
			first = err
		}
	}
	if err := d.Select(ctx, TabAttendance); err != nil && first == nil {
		first = err
	}
	return first
}

// Close unmounts the cards and the active tab.
func (d *Student) Close() {
	d.unmountAll()
	if d.info == nil {
		return
	}
	d.info.Unmount()
	d.attendance.Unmount()
	d.performance.Unmount()
}

// Select switches to tab and fetches its data.
func (d *Student) Select(ctx context.Context, tab Tab) error {
	if err := d.check(tab); err != nil {
		return err
	}
	d.history, d.academic = nil, nil

	if tab == TabAttendance {
		d.history = resource.NewRecord("attendance-history", d.fetchHistory, nil,
			"Could not load attendance records")
		return d.swap(ctx, tab, d.history)
	}
	d.academic = resource.NewRecord("academic-performance", func(ctx context.Context) (AcademicPerformance, error) {
		p, err := d.api.StudentPerformance(ctx)
		if err != nil {
			return AcademicPerformance{}, err
		}
		return NewAcademicPerformance(p), nil
	}, nil, "Could not load performance records")
	return d.swap(ctx, tab, d.academic)
}

func (d *Student) fetchHistory(ctx context.Context) (AttendanceHistory, error) {
	s, err := d.api.StudentAttendance(ctx)
	if err != nil {
		return AttendanceHistory{}, err
	}
	records, skipped := ordering.NormalizeAttendance(s.Records)
	if skipped > 0 {
		slog.Warn("skipped attendance records with malformed dates", slog.Int("count", skipped))
	}
	return AttendanceHistory{Records: records, Skipped: skipped}, nil
}

// Info is the profile card.
func (d *Student) Info() *resource.Record[types.StudentInfo] { return d.info }

// AttendanceCard is the attendance summary card.
func (d *Student) AttendanceCard() *resource.Record[AttendanceCard] { return d.attendance }

// PerformanceCard is the marks summary card.
func (d *Student) PerformanceCard() *resource.Record[PerformanceCard] { return d.performance }

// History is the attendance tab; nil unless that tab is active.
func (d *Student) History() *resource.Record[AttendanceHistory] { return d.history }

// Academic is the performance tab; nil unless that tab is active.
func (d *Student) Academic() *resource.Record[AcademicPerformance] { return d.academic }
