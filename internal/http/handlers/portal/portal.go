// Package portal serves the logged-in student's own records.
package portal

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-portal/internal/http/middleware"
	"github.com/aanand-mishra/student-portal/internal/rollup"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// Info handles GET /student/info.
func Info(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())

		info, err := storage.GetStudentInfo(user.StudentID)
		if err != nil {
			slog.Error("error getting student info", slog.String("error", err.Error()))
			response.WriteJSON(w, response.StorageStatus(err), response.GeneralError(err))
			return
		}
		response.WriteJSON(w, http.StatusOK, info)
	}
}

// Attendance handles GET /student/attendance. Percent counts present
// days against all marked days.
func Attendance(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())

		records, err := storage.GetStudentAttendance(user.StudentID)
		if err != nil {
			slog.Error("error getting student attendance", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, types.AttendanceSummary{
			Percent: rollup.AttendancePercentage(rollup.AttendanceTally(records)),
			Records: records,
		})
	}
}

// Performance handles GET /student/performance.
func Performance(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFrom(r.Context())

		scores, err := storage.GetStudentScores(user.StudentID)
		if err != nil {
			slog.Error("error getting student scores", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, types.Performance{
			Average: rollup.AveragePercentage(rollup.FromScores(scores)),
			Scores:  scores,
		})
	}
}
