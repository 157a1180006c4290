// Package login issues session cookies.
package login

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/request"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /login
//
// Request body (JSON):
//
//	{ "username": "root", "password": "secret" }
//
// Success response (200 OK), plus a smm_session cookie:
//
//	{ "status": "ok", "data": { "role": "superadmin" } }
//
// Error responses:
//
//	400 Bad Request  - missing username or password
//	401 Unauthorized - unknown user or wrong password
//
// ─────────────────────────────────────────────────────────────────────────────
func New(st storage.Storage, sessions *auth.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds types.Credentials
		if !request.Decode(w, r, &creds) {
			return
		}
		slog.Info("login attempt", slog.String("username", creds.Username))

		user, err := st.Authenticate(creds.Username, creds.Password)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidCredentials) {
				slog.Warn("login rejected", slog.String("username", creds.Username))
			} else {
				slog.Error("error authenticating", slog.String("error", err.Error()))
			}
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		token := sessions.Start(auth.Session{UserID: user.ID, Role: user.Role})
		auth.SetCookie(w, token)

		slog.Info("logged in",
			slog.String("username", user.Username),
			slog.String("role", string(user.Role)))
		response.WriteJSON(w, http.StatusOK, response.Data(types.LoginResult{Role: user.Role}))
	}
}
