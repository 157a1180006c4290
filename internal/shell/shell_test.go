package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-portal/internal/types"
)

type fakeAuth struct {
	role     types.Role
	err      error
	calls    int
	forgot   int
	lastSeen types.Credentials
}

func (f *fakeAuth) Login(_ context.Context, creds types.Credentials) (types.LoginResult, error) {
	f.calls++
	f.lastSeen = creds
	if f.err != nil {
		return types.LoginResult{}, f.err
	}
	return types.LoginResult{Role: f.role}, nil
}

func (f *fakeAuth) ForgetSession() error {
	f.forgot++
	return nil
}

func TestLoginTransitions(t *testing.T) {
	tests := []struct {
		name      string
		role      types.Role
		err       error
		username  string
		wantState State
		wantErr   bool
		wantCalls int
	}{
		{name: "superadmin", role: types.RoleSuperAdmin, username: "Haile", wantState: StateSuperAdmin, wantCalls: 1},
		{name: "admin", role: types.RoleAdmin, username: "admin10A", wantState: StateClassAdmin, wantCalls: 1},
		{name: "student", role: types.RoleStudent, username: "S010", wantState: StateStudent, wantCalls: 1},
		{name: "unknown role", role: "janitor", username: "x", wantState: StateLogin, wantErr: true, wantCalls: 1},
		{name: "missing role", role: "", username: "x", wantState: StateLogin, wantErr: true, wantCalls: 1},
		{name: "request failed", err: errors.New("status 401"), username: "x", wantState: StateLogin, wantErr: true, wantCalls: 1},
		{name: "empty username", role: types.RoleAdmin, username: "", wantState: StateLogin, wantErr: true, wantCalls: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{role: tt.role, err: tt.err}
			sh := New(auth)

			got, err := sh.Login(context.Background(), tt.username, "pw")
			assert.Equal(t, tt.wantState, got)
			assert.Equal(t, tt.wantState, sh.State())
			assert.Equal(t, tt.wantCalls, auth.calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrLoginFailed)
				assert.Equal(t, MsgLoginFailed, sh.Notice())
				_, ok := sh.Session()
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, sh.Notice())
			sess, ok := sh.Session()
			require.True(t, ok)
			assert.Equal(t, Session{Username: tt.username, Role: tt.role}, sess)
		})
	}
}

func TestNavigateIsGatedByRole(t *testing.T) {
	auth := &fakeAuth{role: types.RoleAdmin}
	sh := New(auth)

	_, err := sh.Navigate("/class-admin-dashboard")
	assert.ErrorIs(t, err, ErrForbidden, "no session yet")
	assert.Equal(t, StateLogin, sh.State())

	_, err = sh.Login(context.Background(), "admin10A", "pw")
	require.NoError(t, err)

	_, err = sh.Navigate("/admin-dashboard")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = sh.Navigate("/student-dashboard")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, StateClassAdmin, sh.State())

	_, err = sh.Navigate("/nowhere")
	assert.ErrorIs(t, err, ErrUnknownPath)

	st, err := sh.Navigate("/")
	require.NoError(t, err)
	assert.Equal(t, StateLogin, st)

	st, err = sh.Navigate("/class-admin-dashboard")
	require.NoError(t, err)
	assert.Equal(t, StateClassAdmin, st)
}

func TestLogout(t *testing.T) {
	auth := &fakeAuth{role: types.RoleStudent}
	sh := New(auth)
	_, err := sh.Login(context.Background(), "S010", "pw")
	require.NoError(t, err)

	require.NoError(t, sh.Logout())
	assert.Equal(t, StateLogin, sh.State())
	assert.Equal(t, 1, auth.forgot)
	_, ok := sh.Session()
	assert.False(t, ok)

	_, err = sh.Navigate("/student-dashboard")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPaths(t *testing.T) {
	for _, st := range []State{StateLogin, StateSuperAdmin, StateClassAdmin, StateStudent} {
		got, ok := StateForPath(st.Path())
		require.True(t, ok)
		assert.Equal(t, st, got)
	}
}
