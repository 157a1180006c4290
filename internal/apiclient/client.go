// Package apiclient issues the portal's REST calls against a fixed-origin
// API. Every call takes a context and returns either the decoded payload
// or an error; callers decide what to show the user.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/aanand-mishra/student-portal/internal/types"
)

// ErrMissingRole is returned by Login when a 2xx response carries no role.
var ErrMissingRole = errors.New("apiclient: login response has no role")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("apiclient: %s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("apiclient: %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Message)
}

// Client talks to one API origin. The session cookie issued at login is
// kept in a cookie jar the client owns.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	jar     *sessionJar
}

// sessionJar is a cookie jar whose contents can be dropped while
// requests are in flight.
type sessionJar struct {
	mu    sync.Mutex
	inner http.CookieJar
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	inner := j.inner
	j.mu.Unlock()
	inner.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	inner := j.inner
	j.mu.Unlock()
	return inner.Cookies(u)
}

func (j *sessionJar) reset() error {
	fresh, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.inner = fresh
	j.mu.Unlock()
	return nil
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient uses a copy of hc for every request. hc itself is never
// modified; its Jar, when set, seeds the client's cookies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// New returns a Client for the API at baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient.New: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient.New: base url %q must be absolute", baseURL)
	}

	c := &Client{baseURL: u, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	c.jar = &sessionJar{inner: c.http.Jar}
	if c.jar.inner == nil {
		if err := c.jar.reset(); err != nil {
			return nil, fmt.Errorf("apiclient.New: cookie jar: %w", err)
		}
	}
	c.http.Jar = c.jar
	return c, nil
}

// BaseURL returns the API origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ForgetSession drops every cookie held for the API origin. It is safe
// to call while other requests are in flight.
func (c *Client) ForgetSession() error {
	if err := c.jar.reset(); err != nil {
		return fmt.Errorf("apiclient.ForgetSession: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("apiclient: %s %s: encode: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: %s %s: decode: %w", method, path, err)
	}
	return nil
}

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}

// Login posts the credentials and returns the account role.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (types.LoginResult, error) {
	var resp struct {
		Data *types.LoginResult `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", creds, &resp); err != nil {
		return types.LoginResult{}, err
	}
	if resp.Data == nil || resp.Data.Role == "" {
		return types.LoginResult{}, ErrMissingRole
	}
	return *resp.Data, nil
}

// Students lists the class roster.
func (c *Client) Students(ctx context.Context) ([]types.Student, error) {
	var out []types.Student
	err := c.do(ctx, http.MethodGet, "/students", nil, &out)
	return out, err
}

// CreateStudent adds a student to the caller's class.
func (c *Client) CreateStudent(ctx context.Context, s types.NewStudent) error {
	return c.do(ctx, http.MethodPost, "/students", s, nil)
}

// DeleteStudent removes a student by document id.
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, idPath("/students", id), nil, nil)
}

// Attendance lists the roster with each student's status on date
// (YYYY-MM-DD). An empty date lets the API pick today.
func (c *Client) Attendance(ctx context.Context, date string) ([]types.AttendanceEntry, error) {
	path := "/attendance"
	if date != "" {
		path += "?" + url.Values{"date": {date}}.Encode()
	}
	var out []types.AttendanceEntry
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// MarkAttendance records one student's status for a date.
func (c *Client) MarkAttendance(ctx context.Context, m types.MarkAttendance) error {
	return c.do(ctx, http.MethodPost, "/attendance", m, nil)
}

// Marks lists every recorded mark of the caller's class.
func (c *Client) Marks(ctx context.Context) ([]types.Mark, error) {
	var out []types.Mark
	err := c.do(ctx, http.MethodGet, "/marks", nil, &out)
	return out, err
}

// CreateMark appends a mark.
func (c *Client) CreateMark(ctx context.Context, m types.NewMark) error {
	return c.do(ctx, http.MethodPost, "/marks", m, nil)
}

// Classes lists every class with its admin.
func (c *Client) Classes(ctx context.Context) ([]types.SchoolClass, error) {
	var out []types.SchoolClass
	err := c.do(ctx, http.MethodGet, "/classes", nil, &out)
	return out, err
}

// CreateClass creates a class together with its admin account.
func (c *Client) CreateClass(ctx context.Context, cl types.NewClass) error {
	return c.do(ctx, http.MethodPost, "/classes", cl, nil)
}

// DeleteClass removes a class.
func (c *Client) DeleteClass(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, idPath("/classes", id), nil, nil)
}

// ResetAdminPassword sets a new password for a class-admin.
func (c *Client) ResetAdminPassword(ctx context.Context, id, password string) error {
	return c.do(ctx, http.MethodPost, idPath("/admins", id), types.ResetPassword{Password: password}, nil)
}

// DeleteAdmin removes a class-admin account.
func (c *Client) DeleteAdmin(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, idPath("/admins", id), nil, nil)
}

// Subjects lists the subject catalogue.
func (c *Client) Subjects(ctx context.Context) ([]types.Subject, error) {
	var out []types.Subject
	err := c.do(ctx, http.MethodGet, "/subjects", nil, &out)
	return out, err
}

// CreateSubject adds a subject to the catalogue.
func (c *Client) CreateSubject(ctx context.Context, s types.NewSubject) error {
	return c.do(ctx, http.MethodPost, "/subjects", s, nil)
}

// DeleteSubject removes a subject.
func (c *Client) DeleteSubject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, idPath("/subjects", id), nil, nil)
}

// StudentInfo returns the logged-in student's profile.
func (c *Client) StudentInfo(ctx context.Context) (types.StudentInfo, error) {
	var out types.StudentInfo
	err := c.do(ctx, http.MethodGet, "/student/info", nil, &out)
	return out, err
}

// StudentAttendance returns the logged-in student's attendance history.
func (c *Client) StudentAttendance(ctx context.Context) (types.AttendanceSummary, error) {
	var out types.AttendanceSummary
	err := c.do(ctx, http.MethodGet, "/student/attendance", nil, &out)
	return out, err
}

// StudentPerformance returns the logged-in student's scores.
func (c *Client) StudentPerformance(ctx context.Context) (types.Performance, error) {
	var out types.Performance
	err := c.do(ctx, http.MethodGet, "/student/performance", nil, &out)
	return out, err
}
