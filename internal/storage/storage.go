// Package storage defines the Storage interface: the contract a database
// backend satisfies to serve the dev server's handlers.
//
// Handlers depend only on this interface, so tests can pass a fake and
// the SQLite backend can be swapped without touching the HTTP layer.
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-portal/internal/types"
)

var (
	// ErrNotFound is returned when the addressed row does not exist or is
	// outside the caller's class.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique key (username, student ID,
	// subject code) is already taken.
	ErrConflict = errors.New("already exists")

	// ErrInvalidCredentials is returned by Authenticate for an unknown
	// username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is a login account. ClassID is set for class-admins and students,
// StudentID (the student document id) for students only.
type User struct {
	ID        string
	Username  string
	Role      types.Role
	ClassID   string
	StudentID string
}

// Storage is the database contract.
//
// Class-scoped methods take the caller's class id: rows of other classes
// behave as if they did not exist.
type Storage interface {
	// CreateUser inserts an account and returns its id. Used to seed the
	// super-admin.
	CreateUser(username, password string, role types.Role) (string, error)

	// Authenticate checks a username/password pair.
	Authenticate(username, password string) (User, error)

	// GetUser resolves a session's user id.
	GetUser(id string) (User, error)

	// CreateClass inserts a class together with its class-admin account.
	CreateClass(c types.NewClass) (string, error)
	GetClasses() ([]types.SchoolClass, error)

	// DeleteClass removes the class, its admin and its students.
	DeleteClass(id string) error

	// ResetAdminPassword replaces a class-admin's password.
	ResetAdminPassword(id, password string) error

	// DeleteAdmin removes a class-admin account; its class stays,
	// unassigned.
	DeleteAdmin(id string) error

	CreateStudent(classID string, s types.NewStudent) (string, error)
	GetStudents(classID string) ([]types.Student, error)
	DeleteStudent(classID, id string) error

	// GetAttendance lists the class roster with each student's status
	// on date. Students without a row are reported as not-marked.
	GetAttendance(classID, date string) ([]types.AttendanceEntry, error)

	// MarkAttendance upserts one (student, date) status.
	MarkAttendance(classID string, m types.MarkAttendance) error

	CreateMark(classID string, m types.NewMark) (string, error)
	GetMarks(classID string) ([]types.Mark, error)

	CreateSubject(s types.NewSubject) (string, error)
	GetSubjects() ([]types.Subject, error)
	DeleteSubject(id string) error

	// GetStudentInfo, GetStudentAttendance and GetStudentScores take the
	// student document id of the logged-in student.
	GetStudentInfo(studentID string) (types.StudentInfo, error)

	// GetStudentAttendance returns only marked days, newest first.
	GetStudentAttendance(studentID string) ([]types.AttendanceRecord, error)
	GetStudentScores(studentID string) ([]types.Score, error)
}
