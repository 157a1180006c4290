// Package subject manages the flat subject catalogue.
package subject

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/request"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// New handles POST /subjects.
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s types.NewSubject
		if !request.Decode(w, r, &s) {
			return
		}

		id, err := storage.CreateSubject(s)
		if err != nil {
			slog.Error("error creating subject", slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		slog.Info("subject created", slog.String("id", id), slog.String("code", s.Code))
		response.WriteJSON(w, http.StatusCreated, map[string]string{"_id": id})
	}
}

// GetList handles GET /subjects. Class-admins read it to fill the marks
// form.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjects, err := storage.GetSubjects()
		if err != nil {
			slog.Error("error getting subjects", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}
		response.WriteJSON(w, http.StatusOK, subjects)
	}
}

// Delete handles DELETE /subjects/{id}.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		if err := storage.DeleteSubject(id); err != nil {
			slog.Error("error deleting subject",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		slog.Info("subject deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}
