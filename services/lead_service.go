package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/lead_management_backend/models"
	"github.com/HSouheill/lead_management_backend/repositories"
)

// ReportWindow is how far back the closed-leads report looks.
const ReportWindow = 7 * 24 * time.Hour

// LeadService validates lead writes and forwards them to the store.
type LeadService struct {
	leads    LeadStore
	agents   AgentStore
	validate *validator.Validate
	now      func() time.Time
}

type LeadOption func(*LeadService)

func WithLeadClock(now func() time.Time) LeadOption {
	return func(s *LeadService) { s.now = now }
}

func NewLeadService(leads LeadStore, agents AgentStore, validate *validator.Validate, opts ...LeadOption) *LeadService {
	s := &LeadService{leads: leads, agents: agents, validate: validate, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LeadService) Create(ctx context.Context, req models.CreateLeadRequest) (*models.Lead, error) {
	lead, err := validateLead(ctx, s.validate, s.agents, req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.Status == models.StatusClosed {
		lead.ClosedAt = &now
	}

	if err := s.leads.InsertLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

// List returns the leads matching every present field of f, each with its
// sales agent resolved.
func (s *LeadService) List(ctx context.Context, f models.LeadFilter) ([]models.LeadView, error) {
	q, err := validateLeadFilter(s.validate, f)
	if err != nil {
		return nil, err
	}

	leads, err := s.leads.FindLeadViews(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find leads: %w", err)
	}
	return leads, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*models.LeadView, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound("No lead found.")
	}

	lead, err := s.leads.FindLeadViewByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("No lead found.")
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return lead, nil
}

// Update applies the present fields of req and refreshes updatedAt. Moving
// a lead to Closed stamps closedAt unless the patch carries one.
func (s *LeadService) Update(ctx context.Context, id string, req models.UpdateLeadRequest) (*models.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound("No lead found.")
	}

	update, err := validateLeadUpdate(ctx, s.validate, s.agents, req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	update.UpdatedAt = now
	if update.Status != nil && *update.Status == models.StatusClosed && update.ClosedAt == nil {
		update.ClosedAt = &now
	}

	lead, err := s.leads.UpdateLead(ctx, oid, update)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("No lead found.")
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, id string) (*models.Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound("No lead delete.")
	}

	lead, err := s.leads.DeleteLead(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("No lead delete.")
		}
		return nil, fmt.Errorf("delete lead: %w", err)
	}
	return lead, nil
}

// LastWeekClosed returns the closed leads updated within ReportWindow of
// the current time.
func (s *LeadService) LastWeekClosed(ctx context.Context) ([]models.Lead, error) {
	status := models.StatusClosed
	since := s.now().UTC().Add(-ReportWindow)

	leads, err := s.leads.FindLeads(ctx, models.LeadQuery{Status: &status, UpdatedSince: &since})
	if err != nil {
		return nil, fmt.Errorf("find closed leads: %w", err)
	}
	return leads, nil
}
