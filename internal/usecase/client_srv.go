package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/entity"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/data/repository"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/dto/request"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/internal/dto/response"
	"github.com/abdelrahmank7/clinic-scheduler-sub001/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService covers intake and contact updates. Clients are never
// deleted; their session pool is owned by the ledger operations.
type ClientService interface {
	Create(ctx context.Context, req *request.CreateClientRequest) (*response.ClientResponse, error)
	GetByID(ctx context.Context, clientID string) (*response.ClientResponse, error)
	GetAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ClientResponse], error)
	Update(ctx context.Context, clientID string, req *request.UpdateClientRequest) (*response.ClientResponse, error)
}

type clientService struct {
	repo repository.ClientRepository
	log  *zap.Logger
}

func NewClientService(repo repository.ClientRepository, log *zap.Logger) ClientService {
	return &clientService{
		repo: repo,
		log:  log.With(zap.String("service", "client")),
	}
}

func (s *clientService) Create(ctx context.Context, req *request.CreateClientRequest) (*response.ClientResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create client validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	client := &entity.Client{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		Notes:             req.Notes,
		RemainingSessions: req.RemainingSessions,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		s.log.Error("Failed to create client", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.log.Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.Int("remaining_sessions", client.RemainingSessions),
	)

	clientResp := response.ClientToResponse(client)
	return &clientResp, nil
}

func (s *clientService) GetByID(ctx context.Context, clientID string) (*response.ClientResponse, error) {
	id, err := uuid.Parse(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID format %s: %w", clientID, err)
	}

	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("client %s not found", clientID)
	}

	clientResp := response.ClientToResponse(client)
	return &clientResp, nil
}

func (s *clientService) GetAll(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ClientResponse], error) {
	clients, err := s.repo.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get clients: %w", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count clients: %w", err)
	}

	clientResponses := make([]response.ClientResponse, len(clients))
	for i, client := range clients {
		clientResponses[i] = response.ClientToResponse(client)
	}

	return response.NewPaginatedResponse(clientResponses, req.Page, req.PerPage, total), nil
}

func (s *clientService) Update(ctx context.Context, clientID string, req *request.UpdateClientRequest) (*response.ClientResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update client validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID format %s: %w", clientID, err)
	}

	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("client %s not found", clientID)
	}

	// Contact fields only; remaining_sessions belongs to the ledger.
	client.Name = req.Name
	client.PhoneNumber = req.PhoneNumber
	client.Notes = req.Notes
	client.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, client); err != nil {
		s.log.Error("Failed to update client", zap.Error(err), zap.String("client_id", clientID))
		return nil, fmt.Errorf("update client: %w", err)
	}

	clientResp := response.ClientToResponse(client)
	return &clientResp, nil
}
