package adaptor

import (
	"encoding/json"
	"net/http"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/dto/request"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/usecase"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ClientHandler struct {
	service usecase.ClientService
	log     *zap.Logger
}

func NewClientHandler(service usecase.ClientService, log *zap.Logger) *ClientHandler {
	return &ClientHandler{
		service: service,
		log:     log.With(zap.String("handler", "client")),
	}
}

// CreateClient handles POST /api/clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req request.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	client, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create client")
		return
	}

	utils.ResponseCreated(w, "success", client)
}

// GetClient handles GET /api/clients/{id}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	if clientID == "" {
		utils.ResponseBadRequest(w, "Client ID is required", nil)
		return
	}

	client, err := h.service.GetByID(r.Context(), clientID)
	if err != nil {
		handleServiceError(h.log, w, err, "get client")
		return
	}

	utils.ResponseSuccess(w, "success", client)
}

// GetClients handles GET /api/clients
func (h *ClientHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	req := request.PaginationFromQuery(r.URL.Query())

	clients, err := h.service.GetAll(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get clients")
		return
	}

	utils.ResponseSuccess(w, "success", clients)
}

// UpdateClient handles PUT /api/clients/{id}
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	if clientID == "" {
		utils.ResponseBadRequest(w, "Client ID is required", nil)
		return
	}

	var req request.UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	client, err := h.service.Update(r.Context(), clientID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update client")
		return
	}

	utils.ResponseSuccess(w, "success", client)
}
