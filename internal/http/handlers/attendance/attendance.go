// Package attendance serves the class-admin's daily register.
package attendance

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/student-portal/internal/http/middleware"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/request"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// Now is the clock used when a request omits the date.
var Now = time.Now

var errBadDate = errors.New("date must be formatted YYYY-MM-DD")

func resolveDate(date string) (string, error) {
	if date == "" {
		return Now().Format(time.DateOnly), nil
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", errBadDate
	}
	return date, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /attendance?date=YYYY-MM-DD
// Lists the caller's class with each student's status on date. The date
// defaults to today; students without a record report not-marked.
//
// Success response (200 OK):
//
//	[ { "_id": "9b2f...", "studentId": "S-1", "fullName": "Jane Roe", "status": "present" } ]
//
// Error responses:
//
//	400 Bad Request  - date is not YYYY-MM-DD
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())

		date, err := resolveDate(r.URL.Query().Get("date"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("getting attendance",
			slog.String("class", user.ClassID),
			slog.String("date", date))

		entries, err := storage.GetAttendance(user.ClassID, date)
		if err != nil {
			slog.Error("error getting attendance", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, entries)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Mark handles POST /attendance
// Sets one student's status for a day, replacing any earlier status.
//
// Request body (JSON):
//
//	{ "studentId": "9b2f...", "status": "absent", "date": "2024-01-02" }
//
// Success response (200 OK):
//
//	{ "status": "ok" }
//
// Error responses:
//
//	400 Bad Request  - unknown status or malformed date
//	404 Not Found    - student is not in the caller's class
//
// ─────────────────────────────────────────────────────────────────────────────
func Mark(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())

		var m types.MarkAttendance
		if !request.Decode(w, r, &m) {
			return
		}
		date, err := resolveDate(m.Date)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		m.Date = date

		if err := storage.MarkAttendance(user.ClassID, m); err != nil {
			slog.Error("error marking attendance",
				slog.String("student", m.StudentID),
				slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}

		slog.Info("attendance marked",
			slog.String("student", m.StudentID),
			slog.String("date", m.Date),
			slog.String("status", string(m.Status)))
		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}
