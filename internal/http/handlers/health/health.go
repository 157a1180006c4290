// Package health answers liveness probes.
package health

import (
	"net/http"

	"github.com/aanand-mishra/student-portal/internal/utils/response"
)

// Get handles GET /health.
func Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}
