// Package class contains the super-admin's class handlers.
package class

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/request"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /classes
// Creates a class and its class-admin account in one transaction.
//
// Request body (JSON):
//
//	{ "name": "7A", "adminUsername": "t7a", "adminPassword": "pw" }
//
// Success response (201 Created):
//
//	{ "_id": "4c1e..." }
//
// Error responses:
//
//	400 Bad Request  - empty body, malformed JSON, or failed validation
//	409 Conflict     - admin username already taken
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c types.NewClass
		if !request.Decode(w, r, &c) {
			return
		}
		slog.Info("creating a class",
			slog.String("name", c.Name),
			slog.String("admin", c.AdminUsername))

		id, err := storage.CreateClass(c)
		if err != nil {
			slog.Error("error creating class", slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		slog.Info("class created", slog.String("id", id))
		response.WriteJSON(w, http.StatusCreated, map[string]string{"_id": id})
	}
}

// GetList handles GET /classes.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classes, err := storage.GetClasses()
		if err != nil {
			slog.Error("error getting classes", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}
		response.WriteJSON(w, http.StatusOK, classes)
	}
}

// Delete handles DELETE /classes/{id}. The class-admin, the students and
// their accounts go with it.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a class", slog.String("id", id))

		if err := storage.DeleteClass(id); err != nil {
			slog.Error("error deleting class",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		slog.Info("class deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}
