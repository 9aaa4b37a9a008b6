package adaptor

import (
	"net/http"
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/usecase"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/utils"

	"go.uber.org/zap"
)

type ReportHandler struct {
	service usecase.ReportService
	log     *zap.Logger
}

func NewReportHandler(service usecase.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log.With(zap.String("handler", "report")),
	}
}

// GetDailyRevenue handles GET /api/reports/daily?date=YYYY-MM-DD
func (h *ReportHandler) GetDailyRevenue(w http.ResponseWriter, r *http.Request) {
	day := utils.ParseDate(r.URL.Query().Get("date"), time.Now())

	report, err := h.service.DailyRevenue(r.Context(), day)
	if err != nil {
		handleServiceError(h.log, w, err, "get daily revenue")
		return
	}

	utils.ResponseSuccess(w, "success", report)
}
