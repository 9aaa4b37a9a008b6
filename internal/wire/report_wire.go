package wire

import (
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReport(r chi.Router, handler *adaptor.Handler) {
	// GET /api/reports/daily - Day-close revenue reconciliation
	r.Get("/api/reports/daily", handler.Report.GetDailyRevenue)
}
