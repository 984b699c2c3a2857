package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/lead_management_backend/models"
	"github.com/HSouheill/lead_management_backend/repositories"
)

// AgentService creates, lists and deletes sales agents.
type AgentService struct {
	store    AgentStore
	validate *validator.Validate
	reserver EmailReserver
	now      func() time.Time
}

type AgentOption func(*AgentService)

// WithEmailReserver makes Create hold a reservation on the email between
// the uniqueness check and the insert.
func WithEmailReserver(r EmailReserver) AgentOption {
	return func(s *AgentService) { s.reserver = r }
}

func WithAgentClock(now func() time.Time) AgentOption {
	return func(s *AgentService) { s.now = now }
}

func NewAgentService(store AgentStore, validate *validator.Validate, opts ...AgentOption) *AgentService {
	s := &AgentService{store: store, validate: validate, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func duplicateEmail(email string) error {
	return &ConflictError{Message: fmt.Sprintf("Sales agent with email '%s' already exists.", email)}
}

// Create validates req and stores a new agent.
func (s *AgentService) Create(ctx context.Context, req models.CreateAgentRequest) (*models.SalesAgent, error) {
	if err := validateAgent(s.validate, req); err != nil {
		return nil, err
	}

	if s.reserver != nil {
		ok, err := s.reserver.Reserve(ctx, req.Email)
		if err != nil {
			// The unique index still rejects duplicates, so carry on.
			slog.WarnContext(ctx, "email reservation unavailable", "email", req.Email, "error", err)
		} else if !ok {
			return nil, duplicateEmail(req.Email)
		} else {
			defer func() {
				if err := s.reserver.Release(context.WithoutCancel(ctx), req.Email); err != nil {
					slog.WarnContext(ctx, "email reservation release failed", "email", req.Email, "error", err)
				}
			}()
		}
	}

	exists, err := s.store.AgentEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check agent email: %w", err)
	}
	if exists {
		return nil, duplicateEmail(req.Email)
	}

	agent := &models.SalesAgent{
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertAgent(ctx, agent); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, duplicateEmail(req.Email)
		}
		return nil, fmt.Errorf("insert sales agent: %w", err)
	}
	return agent, nil
}

// List returns every agent. An empty result is not an error.
func (s *AgentService) List(ctx context.Context) ([]models.SalesAgent, error) {
	agents, err := s.store.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales agents: %w", err)
	}
	return agents, nil
}

// Delete removes an agent by id and returns it. Leads and comments that
// reference the agent are left as they are.
func (s *AgentService) Delete(ctx context.Context, id string) (*models.SalesAgent, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound("No agent delete.")
	}

	agent, err := s.store.DeleteAgent(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("No agent delete.")
		}
		return nil, fmt.Errorf("delete sales agent: %w", err)
	}
	return agent, nil
}
