// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// the client packages, handlers, and storage can all import types without
// depending on each other.
//
// JSON names follow the document-store API: every entity carries its
// identifier as "_id" and uses camelCase field names.
package types

// Role is the account role returned by a successful login.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleStudent    Role = "student"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStudent:
		return true
	}
	return false
}

// AttendanceStatus is the state of one student on one date.
type AttendanceStatus string

const (
	StatusPresent   AttendanceStatus = "present"
	StatusAbsent    AttendanceStatus = "absent"
	StatusNotMarked AttendanceStatus = "not-marked"
)

// Valid reports whether s is one of the enumerated statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusNotMarked:
		return true
	}
	return false
}

// MaxMark is the implicit maximum of every mark.
const MaxMark = 100

// Student is a class member as listed by the class-admin.
type Student struct {
	ID        string `json:"_id"`
	StudentID string `json:"studentId"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
}

// NewStudent is the body of POST /students.
//
// validate:"..." rules are checked by go-playground/validator on the
// server side; the client checks only that every field is non-empty.
type NewStudent struct {
	StudentID string `json:"studentId" validate:"required"`
	FullName  string `json:"fullName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required"`
}

// AttendanceEntry is one roster row of the class-admin attendance tab.
type AttendanceEntry struct {
	ID        string           `json:"_id"`
	StudentID string           `json:"studentId"`
	FullName  string           `json:"fullName"`
	Status    AttendanceStatus `json:"status,omitempty"`
}

// MarkAttendance is the body of POST /attendance. StudentID is the
// student's document _id.
type MarkAttendance struct {
	StudentID string           `json:"studentId" validate:"required"`
	Status    AttendanceStatus `json:"status"    validate:"required,oneof=present absent not-marked"`
	Date      string           `json:"date"      validate:"omitempty,datetime=2006-01-02"`
}

// AttendanceRecord is one day of a student's attendance history. Day is
// filled in client-side during normalization.
type AttendanceRecord struct {
	ID     string           `json:"_id"`
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status"`
	Day    string           `json:"day,omitempty"`
}

// AttendanceSummary is the payload of GET /student/attendance.
type AttendanceSummary struct {
	Percent int                `json:"percent"`
	Records []AttendanceRecord `json:"records"`
}

// StudentRef is the populated student reference inside a Mark.
type StudentRef struct {
	ID        string `json:"_id"`
	FullName  string `json:"fullName"`
	StudentID string `json:"studentId"`
}

// SubjectRef is the populated subject reference inside a Mark.
type SubjectRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Mark is one recorded score out of MaxMark.
type Mark struct {
	ID      string     `json:"_id"`
	Student StudentRef `json:"studentId"`
	Subject SubjectRef `json:"subjectId"`
	Mark    int        `json:"mark"`
}

// NewMark is the body of POST /marks.
type NewMark struct {
	StudentID string `json:"studentId" validate:"required"`
	SubjectID string `json:"subjectId" validate:"required"`
	Mark      int    `json:"mark"      validate:"gte=0,lte=100"`
}

// Score is one row of GET /student/performance.
type Score struct {
	ID        string `json:"_id"`
	Subject   string `json:"subject"`
	Mark      int    `json:"mark"`
	TotalMark int    `json:"totalMark"`
}

// Performance is the payload of GET /student/performance.
type Performance struct {
	Average int     `json:"average"`
	Scores  []Score `json:"scores"`
}

// AdminRef is the populated admin reference inside a SchoolClass.
type AdminRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// SchoolClass is a class with its (single) class-admin.
type SchoolClass struct {
	ID      string    `json:"_id"`
	Name    string    `json:"name"`
	AdminID string    `json:"adminId"`
	Admin   *AdminRef `json:"admin,omitempty"`
}

// NewClass is the body of POST /classes.
type NewClass struct {
	Name          string `json:"name"          validate:"required"`
	AdminUsername string `json:"adminUsername" validate:"required"`
	AdminPassword string `json:"adminPassword" validate:"required"`
}

// ClassRef is the class a class-admin is assigned to.
type ClassRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Admin is a class-admin account as shown on the super-admin dashboard.
type Admin struct {
	ID       string    `json:"_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
	Class    *ClassRef `json:"class,omitempty"`
}

// ResetPassword is the body of POST /admins/{id}.
type ResetPassword struct {
	Password string `json:"password" validate:"required"`
}

// Subject is an entry of the flat subject catalogue.
type Subject struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// NewSubject is the body of POST /subjects.
type NewSubject struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required"`
}

// StudentInfo is the payload of GET /student/info.
type StudentInfo struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Class  string `json:"class"`
	RollNo string `json:"rollNo"`
}

// Credentials is the body of POST /login.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the "data" member of the login response.
type LoginResult struct {
	Role Role `json:"role"`
}
