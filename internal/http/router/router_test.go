package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-portal/internal/apiclient"
	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/config"
	"github.com/aanand-mishra/student-portal/internal/http/handlers/attendance"
	"github.com/aanand-mishra/student-portal/internal/storage/sqlite"
	"github.com/aanand-mishra/student-portal/internal/types"
)

func newServer(t *testing.T) (*httptest.Server, *sqlite.SQLite) {
	t.Helper()
	auth.BcryptCost = 4
	db, err := sqlite.New(&config.Config{StoragePath: filepath.Join(t.TempDir(), "portal.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.CreateUser("root", "secret", types.RoleSuperAdmin)
	require.NoError(t, err)

	srv := httptest.NewServer(New(db, auth.NewSessions()))
	t.Cleanup(srv.Close)
	return srv, db
}

func loginAs(t *testing.T, baseURL, username, password string) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(baseURL)
	require.NoError(t, err)
	_, err = c.Login(context.Background(), types.Credentials{Username: username, Password: password})
	require.NoError(t, err)
	return c
}

func statusCode(err error) int {
	var se *apiclient.StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginRejected(t *testing.T) {
	srv, _ := newServer(t)
	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), types.Credentials{Username: "root", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, statusCode(err))

	_, err = c.Classes(context.Background())
	assert.Equal(t, http.StatusUnauthorized, statusCode(err))
}

func TestPortalRoundTrip(t *testing.T) {
	attendance.Now = func() time.Time { return time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { attendance.Now = time.Now })

	ctx := context.Background()
	srv, _ := newServer(t)

	root := loginAs(t, srv.URL, "root", "secret")
	res, err := root.Login(ctx, types.Credentials{Username: "root", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, types.RoleSuperAdmin, res.Role)

	require.NoError(t, root.CreateClass(ctx, types.NewClass{Name: "7A", AdminUsername: "t7a", AdminPassword: "pw"}))
	require.NoError(t, root.CreateSubject(ctx, types.NewSubject{Name: "Maths", Code: "MTH"}))
	require.NoError(t, root.CreateSubject(ctx, types.NewSubject{Name: "Biology", Code: "BIO"}))

	err = root.CreateSubject(ctx, types.NewSubject{Name: "Maths again", Code: "MTH"})
	assert.Equal(t, http.StatusConflict, statusCode(err))

	// Super-admins cannot reach class-admin routes.
	_, err = root.Students(ctx)
	assert.Equal(t, http.StatusForbidden, statusCode(err))

	classAdmin := loginAs(t, srv.URL, "t7a", "pw")
	require.NoError(t, classAdmin.CreateStudent(ctx, types.NewStudent{
		StudentID: "S-1", FullName: "Jane Roe", Email: "jane@school.test", Password: "pw",
	}))

	err = classAdmin.CreateStudent(ctx, types.NewStudent{StudentID: "S-2", FullName: "No Mail", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, statusCode(err))

	students, err := classAdmin.Students(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	jane := students[0].ID

	roster, err := classAdmin.Attendance(ctx, "")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, types.StatusNotMarked, roster[0].Status)

	require.NoError(t, classAdmin.MarkAttendance(ctx, types.MarkAttendance{StudentID: jane, Status: types.StatusPresent}))
	require.NoError(t, classAdmin.MarkAttendance(ctx, types.MarkAttendance{StudentID: jane, Status: types.StatusAbsent, Date: "2024-01-02"}))
	require.NoError(t, classAdmin.MarkAttendance(ctx, types.MarkAttendance{StudentID: jane, Status: types.StatusPresent, Date: "2024-01-01"}))

	err = classAdmin.MarkAttendance(ctx, types.MarkAttendance{StudentID: jane, Status: "late"})
	assert.Equal(t, http.StatusBadRequest, statusCode(err))

	roster, err = classAdmin.Attendance(ctx, "2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, types.StatusPresent, roster[0].Status)

	subjects, err := classAdmin.Subjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	bySubject := map[string]string{}
	for _, s := range subjects {
		bySubject[s.Name] = s.ID
	}

	require.NoError(t, classAdmin.CreateMark(ctx, types.NewMark{StudentID: jane, SubjectID: bySubject["Maths"], Mark: 90}))
	require.NoError(t, classAdmin.CreateMark(ctx, types.NewMark{StudentID: jane, SubjectID: bySubject["Biology"], Mark: 75}))

	err = classAdmin.CreateMark(ctx, types.NewMark{StudentID: jane, SubjectID: bySubject["Maths"], Mark: 101})
	assert.Equal(t, http.StatusBadRequest, statusCode(err))

	marks, err := classAdmin.Marks(ctx)
	require.NoError(t, err)
	assert.Len(t, marks, 2)

	pupil := loginAs(t, srv.URL, "S-1", "pw")
	info, err := pupil.StudentInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", info.Name)
	assert.Equal(t, "7A", info.Class)
	assert.Equal(t, "S-1", info.RollNo)

	summary, err := pupil.StudentAttendance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 67, summary.Percent)
	require.Len(t, summary.Records, 3)
	assert.Equal(t, "2024-01-03", summary.Records[0].Date)

	perf, err := pupil.StudentPerformance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 83, perf.Average)
	assert.Len(t, perf.Scores, 2)

	_, err = pupil.Marks(ctx)
	assert.Equal(t, http.StatusForbidden, statusCode(err))

	// Deleting the class removes both accounts.
	classes, err := root.Classes(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.NoError(t, root.DeleteClass(ctx, classes[0].ID))

	_, err = pupil.StudentInfo(ctx)
	assert.Equal(t, http.StatusUnauthorized, statusCode(err))
	_, err = classAdmin.Students(ctx)
	assert.Equal(t, http.StatusUnauthorized, statusCode(err))
}

func TestAdminPasswordReset(t *testing.T) {
	ctx := context.Background()
	srv, _ := newServer(t)
	root := loginAs(t, srv.URL, "root", "secret")
	require.NoError(t, root.CreateClass(ctx, types.NewClass{Name: "7A", AdminUsername: "t7a", AdminPassword: "pw"}))

	classes, err := root.Classes(ctx)
	require.NoError(t, err)
	require.NotNil(t, classes[0].Admin)
	adminID := classes[0].Admin.ID

	require.NoError(t, root.ResetAdminPassword(ctx, adminID, "fresh"))
	loginAs(t, srv.URL, "t7a", "fresh")

	err = root.ResetAdminPassword(ctx, adminID, "")
	assert.Equal(t, http.StatusBadRequest, statusCode(err))

	require.NoError(t, root.DeleteAdmin(ctx, adminID))
	err = root.DeleteAdmin(ctx, adminID)
	assert.Equal(t, http.StatusNotFound, statusCode(err))
}
