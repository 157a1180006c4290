// Package ordering sorts and normalizes fetched lists before display.
//
// All sorts are stable: records with equal keys keep their fetch order.
package ordering

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aanand-mishra/student-portal/internal/types"
)

// Locale is the collation and weekday locale used for display.
var Locale = language.AmericanEnglish

// DateLayout is the calendar date format shown in tables.
const DateLayout = "2006-01-02"

// ByKey sorts items ascending by key using locale collation.
// A collator is not safe for concurrent use, so one is built per call.
func ByKey[T any](items []T, key func(T) string) {
	c := collate.New(Locale)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}

// Names sorts plain strings ascending by locale collation.
func Names(names []string) {
	ByKey(names, func(s string) string { return s })
}

// StudentsByName sorts the class roster by full name.
func StudentsByName(students []types.Student) []types.Student {
	ByKey(students, func(s types.Student) string { return s.FullName })
	return students
}

// EntriesByName sorts attendance roster rows by full name.
func EntriesByName(entries []types.AttendanceEntry) []types.AttendanceEntry {
	ByKey(entries, func(e types.AttendanceEntry) string { return e.FullName })
	return entries
}

// ScoresBySubject sorts performance rows by subject name.
func ScoresBySubject(scores []types.Score) []types.Score {
	ByKey(scores, func(s types.Score) string { return s.Subject })
	return scores
}

// SubjectsByName sorts the subject catalogue by name.
func SubjectsByName(subjects []types.Subject) []types.Subject {
	ByKey(subjects, func(s types.Subject) string { return s.Name })
	return subjects
}

// ByDateDesc sorts attendance records newest first. Dates must already be
// normalized to DateLayout, which orders lexically.
func ByDateDesc(records []types.AttendanceRecord) []types.AttendanceRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	return records
}

// ParseDate accepts an RFC 3339 timestamp or a bare calendar date and
// returns the UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z07:00", "2006-01-02T15:04:05", DateLayout}
	var err error
	for _, layout := range layouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, err
}

// Weekday returns the full weekday name of t.
func Weekday(t time.Time) string {
	return t.Weekday().String()
}

// NormalizeAttendance rewrites each record's date as YYYY-MM-DD, fills in
// the weekday, and sorts newest first. Records with an unparseable date are
// dropped; skipped reports how many.
func NormalizeAttendance(records []types.AttendanceRecord) (out []types.AttendanceRecord, skipped int) {
	out = make([]types.AttendanceRecord, 0, len(records))
	for _, r := range records {
		t, err := ParseDate(r.Date)
		if err != nil {
			skipped++
			continue
		}
		r.Date = t.Format(DateLayout)
		r.Day = Weekday(t)
		out = append(out, r)
	}
	return ByDateDesc(out), skipped
}
