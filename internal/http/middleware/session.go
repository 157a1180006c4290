// Package middleware gates dev-server routes on the login session.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

type userKey struct{}

var (
	errNotLoggedIn = errors.New("not logged in")
	errForbidden   = errors.New("forbidden for this role")
)

// Guard resolves the session cookie to a user.
type Guard struct {
	Sessions *auth.Sessions
	Storage  storage.Storage
}

// Require lets the request through only for a logged-in user holding
// one of roles. The user is available to next via UserFrom.
func (g Guard) Require(next http.HandlerFunc, roles ...types.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := g.Sessions.FromRequest(r)
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errNotLoggedIn))
			return
		}

		// The account may have been deleted since login.
		user, err := g.Storage.GetUser(sess.UserID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errNotLoggedIn))
				return
			}
			slog.Error("error resolving session", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		if !slices.Contains(roles, user.Role) {
			slog.Warn("role rejected",
				slog.String("path", r.URL.Path),
				slog.String("role", string(user.Role)))
			response.WriteJSON(w, http.StatusForbidden, response.GeneralError(errForbidden))
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	}
}

// UserFrom returns the user stored by Require.
func UserFrom(ctx context.Context) storage.User {
	u, _ := ctx.Value(userKey{}).(storage.User)
	return u
}
