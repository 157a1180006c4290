// Package mark records and lists class marks.
package mark

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-portal/internal/http/middleware"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/request"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// New handles POST /marks. The mark is out of types.MaxMark.
//
//	{ "studentId": "9b2f...", "subjectId": "c03a...", "mark": 90 }
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())

		var m types.NewMark
		if !request.Decode(w, r, &m) {
			return
		}

		id, err := storage.CreateMark(user.ClassID, m)
		if err != nil {
			slog.Error("error creating mark", slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		slog.Info("mark created", slog.String("id", id), slog.Int("mark", m.Mark))
		response.WriteJSON(w, http.StatusCreated, map[string]string{"_id": id})
	}
}

// GetList handles GET /marks.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())

		marks, err := storage.GetMarks(user.ClassID)
		if err != nil {
			slog.Error("error getting marks", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, marks)
	}
}
