package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/dto/request"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/usecase"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.LedgerService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.LedgerService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// RecordPayment handles POST /api/payments
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req request.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "record payment")
		return
	}

	utils.ResponseCreated(w, "success", payment)
}

// RefundPayment handles POST /api/refunds
func (h *PaymentHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var req request.RefundPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	refund, err := h.service.RefundPayment(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "refund payment")
		return
	}

	utils.ResponseCreated(w, "success", refund)
}

// GetPayment handles GET /api/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		utils.ResponseBadRequest(w, "Payment ID is required", nil)
		return
	}

	payment, err := h.service.GetPaymentByID(r.Context(), paymentID)
	if err != nil {
		handleServiceError(h.log, w, err, "get payment")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// GetClientPayments handles GET /api/clients/{id}/payments
func (h *PaymentHandler) GetClientPayments(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	if clientID == "" {
		utils.ResponseBadRequest(w, "Client ID is required", nil)
		return
	}

	req := request.PaginationFromQuery(r.URL.Query())

	payments, err := h.service.GetPaymentsByClient(r.Context(), clientID, req)
	if err != nil {
		handleServiceError(h.log, w, err, "get client payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}

// GetAppointmentPayments handles GET /api/appointments/{id}/payments
func (h *PaymentHandler) GetAppointmentPayments(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "id")
	if appointmentID == "" {
		utils.ResponseBadRequest(w, "Appointment ID is required", nil)
		return
	}

	payments, err := h.service.GetPaymentsByAppointment(r.Context(), appointmentID)
	if err != nil {
		handleServiceError(h.log, w, err, "get appointment payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}

// GetPaymentRefunds handles GET /api/payments/{id}/refunds
func (h *PaymentHandler) GetPaymentRefunds(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		utils.ResponseBadRequest(w, "Payment ID is required", nil)
		return
	}

	refunds, err := h.service.GetRefundsByPayment(r.Context(), paymentID)
	if err != nil {
		handleServiceError(h.log, w, err, "get payment refunds")
		return
	}

	utils.ResponseSuccess(w, "success", refunds)
}

// CheckPaymentAmount handles GET /api/appointments/{id}/check-amount?amount=50
// The booking screen calls this before submitting a package payment.
func (h *PaymentHandler) CheckPaymentAmount(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "id")
	if appointmentID == "" {
		utils.ResponseBadRequest(w, "Appointment ID is required", nil)
		return
	}

	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		utils.ResponseBadRequest(w, "Amount is required", nil)
		return
	}

	if err := h.service.CheckPaymentAmount(r.Context(), appointmentID, amount); err != nil {
		handleServiceError(h.log, w, err, "check payment amount")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
