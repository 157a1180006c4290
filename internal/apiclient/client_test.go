package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-portal/internal/types"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:3000/api")
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantRole types.Role
		wantErr  func(error) bool
	}{
		{name: "admin", status: http.StatusOK, body: `{"data":{"role":"admin"}}`, wantRole: types.RoleAdmin},
		{name: "no data", status: http.StatusOK, body: `{}`, wantErr: func(err error) bool { return errors.Is(err, ErrMissingRole) }},
		{name: "unauthorised", status: http.StatusUnauthorized, body: `{"status":"error","error":"invalid credentials"}`, wantErr: func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.Code == http.StatusUnauthorized && se.Message == "invalid credentials"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got types.Credentials
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/login", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			res, err := c.Login(context.Background(), types.Credentials{Username: "Haile", Password: "pw"})
			assert.Equal(t, types.Credentials{Username: "Haile", Password: "pw"}, got)
			if tt.wantErr != nil {
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, res.Role)
		})
	}
}

func TestLoginSessionCookieIsReplayed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "smm_session", Value: "abc", Path: "/"})
		_, _ = w.Write([]byte(`{"data":{"role":"student"}}`))
	})
	mux.HandleFunc("GET /student/info", func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("smm_session")
		if err != nil || ck.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"_id":"1","name":"Jane Roe","class":"10-A","rollNo":"S010"}`))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.Login(ctx, types.Credentials{Username: "S010", Password: "pw"})
	require.NoError(t, err)

	info, err := c.StudentInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.StudentInfo{ID: "1", Name: "Jane Roe", Class: "10-A", RollNo: "S010"}, info)

	require.NoError(t, c.ForgetSession())
	_, err = c.StudentInfo(ctx)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
}

func TestForgetSessionLeavesCallerClientAlone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "smm_session", Value: "abc", Path: "/"})
		_, _ = w.Write([]byte(`{"data":{"role":"admin"}}`))
	})
	mux.HandleFunc("GET /students", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	hc := &http.Client{}
	c, err := New(srv.URL, WithHTTPClient(hc))
	require.NoError(t, err)
	assert.Nil(t, hc.Jar)

	ctx := context.Background()
	_, err = c.Login(ctx, types.Credentials{Username: "t7a", Password: "pw"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = c.Students(ctx)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, c.ForgetSession())
		}()
	}
	wg.Wait()

	assert.Nil(t, hc.Jar)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	assert.Empty(t, c.jar.Cookies(u))
}

func TestAttendanceQueryAndDeletePaths(t *testing.T) {
	var seen []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"deleted"}`))
	}))
	ctx := context.Background()

	_, err := c.Attendance(ctx, "2024-01-03")
	require.NoError(t, err)
	_, err = c.Attendance(ctx, "")
	require.NoError(t, err)
	require.NoError(t, c.DeleteStudent(ctx, "a/b"))
	require.NoError(t, c.DeleteAdmin(ctx, "42"))

	assert.Equal(t, []string{
		"GET /attendance?date=2024-01-03",
		"GET /attendance",
		"DELETE /students/a%2Fb",
		"DELETE /admins/42",
	}, seen)
}

func TestMarksDecodesPopulatedReferences(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"_id":"m1","studentId":{"_id":"s1","fullName":"Jane Roe","studentId":"S010"},"subjectId":{"_id":"sub1","name":"Mathematics"},"mark":85}]`))
	}))

	marks, err := c.Marks(context.Background())
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, "Jane Roe", marks[0].Student.FullName)
	assert.Equal(t, "Mathematics", marks[0].Subject.Name)
	assert.Equal(t, 85, marks[0].Mark)
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = c.Subjects(context.Background())
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}
