package api

import (
	"net/http"
	"time"

	"github.com/hackgods/medai-console/internal/dashboard"
)

func dashboardStatsHandler(svc *dashboard.Service, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context(), now())
		if err != nil {
			writeServerError(w, r, err, msgServerError)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}
