// Package admin lets the super-admin manage class-admin accounts.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/request"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// ResetPassword handles POST /admins/{id}.
func ResetPassword(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var body types.ResetPassword
		if !request.Decode(w, r, &body) {
			return
		}

		if err := storage.ResetAdminPassword(id, body.Password); err != nil {
			slog.Error("error resetting password",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		slog.Info("admin password reset", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}

// Delete handles DELETE /admins/{id}.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting an admin", slog.String("id", id))

		if err := storage.DeleteAdmin(id); err != nil {
			slog.Error("error deleting admin",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}
