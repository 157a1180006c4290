// Package student contains the class-admin's roster handlers.
//
// Every handler follows the same factory pattern:
//
//	func HandlerName(storage storage.Storage) http.HandlerFunc
//
// and is mounted behind middleware.Guard, which puts the caller's account
// (and therefore their class) on the request context.
package student

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-portal/internal/http/middleware"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/request"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students
// Adds a student to the caller's class and creates their login account.
// The student logs in with studentId as the username.
//
// Request body (JSON):
//
//	{ "studentId": "S-1", "fullName": "Jane Roe", "email": "jane@school.test", "password": "pw" }
//
// Success response (201 Created):
//
//	{ "_id": "9b2f..." }
//
// Error responses:
//
//	400 Bad Request  - empty body, malformed JSON, or failed validation
//	409 Conflict     - studentId already taken
//	500 Internal     - database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())
		slog.Info("creating a student", slog.String("class", user.ClassID))

		// ── Step 1: Decode and validate the body ───────────────────────
		var student types.NewStudent
		if !request.Decode(w, r, &student) {
			return // request.Decode already wrote the 400
		}

		// ── Step 2: Insert the student and their account ─────────────
		id, err := storage.CreateStudent(user.ClassID, student)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.String("id", id))
		response.WriteJSON(w, http.StatusCreated, map[string]string{"_id": id})
	}
}

// GetList handles GET /students.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())
		slog.Info("getting students", slog.String("class", user.ClassID))

		students, err := storage.GetStudents(user.ClassID)
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /students/{id}
// Removes a student of the caller's class together with their account.
//
// Success response (200 OK):
//
//	{ "status": "ok" }
//
// Error responses:
//
//	404 Not Found    - no such student in the caller's class
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		if err := storage.DeleteStudent(user.ClassID, id); err != nil {
			slog.Error("error deleting student",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}
