package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/config"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	auth.BcryptCost = 4
	db, err := New(&config.Config{StoragePath: filepath.Join(t.TempDir(), "portal.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// seedClass creates a class with one student and returns (classID, studentID).
func seedClass(t *testing.T, db *SQLite, name, admin, rollNo string) (string, string) {
	t.Helper()
	classID, err := db.CreateClass(types.NewClass{Name: name, AdminUsername: admin, AdminPassword: "pw"})
	require.NoError(t, err)
	studentID, err := db.CreateStudent(classID, types.NewStudent{
		StudentID: rollNo, FullName: "Student " + rollNo, Email: rollNo + "@school.test", Password: "pw",
	})
	require.NoError(t, err)
	return classID, studentID
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	_, err := db.CreateUser("root", "secret", types.RoleSuperAdmin)
	require.NoError(t, err)
	classID, studentID := seedClass(t, db, "7A", "admin7a", "S-1")

	u, err := db.Authenticate("root", "secret")
	require.NoError(t, err)
	assert.Equal(t, types.RoleSuperAdmin, u.Role)
	assert.Empty(t, u.ClassID)

	u, err = db.Authenticate("admin7a", "pw")
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, u.Role)
	assert.Equal(t, classID, u.ClassID)

	u, err = db.Authenticate("S-1", "pw")
	require.NoError(t, err)
	assert.Equal(t, types.RoleStudent, u.Role)
	assert.Equal(t, classID, u.ClassID)
	assert.Equal(t, studentID, u.StudentID)

	_, err = db.Authenticate("root", "wrong")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
	_, err = db.Authenticate("nobody", "secret")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
}

func TestConflicts(t *testing.T) {
	db := newTestDB(t)
	classID, _ := seedClass(t, db, "7A", "admin7a", "S-1")

	_, err := db.CreateClass(types.NewClass{Name: "7B", AdminUsername: "admin7a", AdminPassword: "pw"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	_, err = db.CreateStudent(classID, types.NewStudent{StudentID: "S-1", FullName: "Dup", Email: "d@x.io", Password: "pw"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	_, err = db.CreateSubject(types.NewSubject{Name: "Maths", Code: "MTH"})
	require.NoError(t, err)
	_, err = db.CreateSubject(types.NewSubject{Name: "Mathematics", Code: "MTH"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	classes, err := db.GetClasses()
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func TestAttendanceUpsertAndScoping(t *testing.T) {
	db := newTestDB(t)
	classA, alice := seedClass(t, db, "7A", "a", "S-1")
	classB, _ := seedClass(t, db, "7B", "b", "S-2")

	entries, err := db.GetAttendance(classA, "2024-01-03")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.StatusNotMarked, entries[0].Status)

	mark := types.MarkAttendance{StudentID: alice, Status: types.StatusPresent, Date: "2024-01-03"}
	require.NoError(t, db.MarkAttendance(classA, mark))
	mark.Status = types.StatusAbsent
	require.NoError(t, db.MarkAttendance(classA, mark))

	entries, err = db.GetAttendance(classA, "2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, types.StatusAbsent, entries[0].Status)

	err = db.MarkAttendance(classB, mark)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, db.MarkAttendance(classA, types.MarkAttendance{StudentID: alice, Status: types.StatusPresent, Date: "2024-01-04"}))
	require.NoError(t, db.MarkAttendance(classA, types.MarkAttendance{StudentID: alice, Status: types.StatusNotMarked, Date: "2024-01-05"}))

	records, err := db.GetStudentAttendance(alice)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-04", records[0].Date)
	assert.Equal(t, "2024-01-03", records[1].Date)
}

func TestMarksAndScores(t *testing.T) {
	db := newTestDB(t)
	classA, alice := seedClass(t, db, "7A", "a", "S-1")
	classB, _ := seedClass(t, db, "7B", "b", "S-2")
	maths, err := db.CreateSubject(types.NewSubject{Name: "Maths", Code: "MTH"})
	require.NoError(t, err)

	_, err = db.CreateMark(classA, types.NewMark{StudentID: alice, SubjectID: maths, Mark: 80})
	require.NoError(t, err)

	_, err = db.CreateMark(classB, types.NewMark{StudentID: alice, SubjectID: maths, Mark: 80})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = db.CreateMark(classA, types.NewMark{StudentID: alice, SubjectID: "missing", Mark: 80})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	marks, err := db.GetMarks(classA)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, "Student S-1", marks[0].Student.FullName)
	assert.Equal(t, "Maths", marks[0].Subject.Name)

	other, err := db.GetMarks(classB)
	require.NoError(t, err)
	assert.Empty(t, other)

	scores, err := db.GetStudentScores(alice)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, types.Score{ID: marks[0].ID, Subject: "Maths", Mark: 80, TotalMark: types.MaxMark}, scores[0])

	info, err := db.GetStudentInfo(alice)
	require.NoError(t, err)
	assert.Equal(t, types.StudentInfo{ID: alice, Name: "Student S-1", Class: "7A", RollNo: "S-1"}, info)
}

func TestDeleteClassCascades(t *testing.T) {
	db := newTestDB(t)
	classID, studentID := seedClass(t, db, "7A", "admin7a", "S-1")
	require.NoError(t, db.MarkAttendance(classID, types.MarkAttendance{StudentID: studentID, Status: types.StatusPresent, Date: "2024-01-03"}))

	require.NoError(t, db.DeleteClass(classID))

	_, err := db.Authenticate("admin7a", "pw")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
	_, err = db.Authenticate("S-1", "pw")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
	_, err = db.GetStudentInfo(studentID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, db.DeleteClass(classID), storage.ErrNotFound)
}

func TestAdmins(t *testing.T) {
	db := newTestDB(t)
	classID, studentID := seedClass(t, db, "7A", "admin7a", "S-1")
	classes, err := db.GetClasses()
	require.NoError(t, err)
	adminID := classes[0].AdminID
	require.NotEmpty(t, adminID)

	require.NoError(t, db.ResetAdminPassword(adminID, "new"))
	_, err = db.Authenticate("admin7a", "new")
	require.NoError(t, err)

	// Student accounts are not admins.
	u, err := db.Authenticate("S-1", "pw")
	require.NoError(t, err)
	assert.ErrorIs(t, db.ResetAdminPassword(u.ID, "x"), storage.ErrNotFound)

	require.NoError(t, db.DeleteAdmin(adminID))
	classes, err = db.GetClasses()
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Nil(t, classes[0].Admin)

	students, err := db.GetStudents(classID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, studentID, students[0].ID)
}

func TestDeleteStudentScopedToClass(t *testing.T) {
	db := newTestDB(t)
	classA, alice := seedClass(t, db, "7A", "a", "S-1")
	classB, _ := seedClass(t, db, "7B", "b", "S-2")

	assert.ErrorIs(t, db.DeleteStudent(classB, alice), storage.ErrNotFound)
	require.NoError(t, db.DeleteStudent(classA, alice))

	students, err := db.GetStudents(classA)
	require.NoError(t, err)
	assert.Empty(t, students)
	_, err = db.Authenticate("S-1", "pw")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
}

func TestSubjects(t *testing.T) {
	db := newTestDB(t)
	_, err := db.CreateSubject(types.NewSubject{Name: "Physics", Code: "PHY"})
	require.NoError(t, err)
	id, err := db.CreateSubject(types.NewSubject{Name: "Biology", Code: "BIO"})
	require.NoError(t, err)

	subjects, err := db.GetSubjects()
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "Biology", subjects[0].Name)

	require.NoError(t, db.DeleteSubject(id))
	assert.ErrorIs(t, db.DeleteSubject(id), storage.ErrNotFound)
}
