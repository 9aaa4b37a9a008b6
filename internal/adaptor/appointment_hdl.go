package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/dto/request"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/usecase"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	service usecase.AppointmentService
	log     *zap.Logger
}

func NewAppointmentHandler(service usecase.AppointmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log.With(zap.String("handler", "appointment")),
	}
}

// CreateAppointment handles POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	appointment, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create appointment")
		return
	}

	utils.ResponseCreated(w, "success", appointment)
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "id")
	if appointmentID == "" {
		utils.ResponseBadRequest(w, "Appointment ID is required", nil)
		return
	}

	if err := h.service.Delete(r.Context(), appointmentID); err != nil {
		handleServiceError(h.log, w, err, "delete appointment")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "id")
	if appointmentID == "" {
		utils.ResponseBadRequest(w, "Appointment ID is required", nil)
		return
	}

	appointment, err := h.service.GetByID(r.Context(), appointmentID)
	if err != nil {
		handleServiceError(h.log, w, err, "get appointment")
		return
	}

	utils.ResponseSuccess(w, "success", appointment)
}

// GetClientAppointments handles GET /api/clients/{id}/appointments
func (h *AppointmentHandler) GetClientAppointments(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	if clientID == "" {
		utils.ResponseBadRequest(w, "Client ID is required", nil)
		return
	}

	req := request.PaginationFromQuery(r.URL.Query())

	appointments, err := h.service.GetByClient(r.Context(), clientID, req)
	if err != nil {
		handleServiceError(h.log, w, err, "get client appointments")
		return
	}

	utils.ResponseSuccess(w, "success", appointments)
}

// GetCalendar handles GET /api/appointments?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *AppointmentHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Default window: the current week.
	now := time.Now()
	from := utils.ParseDate(query.Get("from"), now.AddDate(0, 0, -int(now.Weekday())))
	to := utils.ParseDate(query.Get("to"), from.AddDate(0, 0, 7))

	appointments, err := h.service.GetCalendar(r.Context(), from, to)
	if err != nil {
		handleServiceError(h.log, w, err, "get calendar")
		return
	}

	utils.ResponseSuccess(w, "success", appointments)
}
