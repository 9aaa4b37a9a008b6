package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/usecase"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Client      *ClientHandler
	Appointment *AppointmentHandler
	Payment     *PaymentHandler
	Report      *ReportHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Client:      NewClientHandler(service.Client, log),
		Appointment: NewAppointmentHandler(service.Appointment, log),
		Payment:     NewPaymentHandler(service.Ledger, log),
		Report:      NewReportHandler(service.Report, log),
	}
}

// handleServiceError maps service errors to HTTP responses. Typed ledger
// errors first, then the usual string buckets.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var validationErr *usecase.ValidationError
	var insufficientErr *usecase.InsufficientSessionsError
	var processingErr *usecase.PaymentProcessingError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)
		return

	case errors.As(err, &insufficientErr):
		log.Warn(operation+" failed - insufficient sessions",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error())
		return

	case errors.As(err, &processingErr):
		log.Error(operation+" failed after retries",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, err.Error())
		return
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "not found"):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid"):
		log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "cannot"):
		log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
