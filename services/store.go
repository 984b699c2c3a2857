package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/lead_management_backend/models"
)

// The store interfaces are implemented by the Mongo and in-memory stores in
// repositories. Lookups by id return repositories.ErrNotFound when nothing
// matches; inserts return repositories.ErrDuplicate on a unique-index clash.

type AgentStore interface {
	InsertAgent(ctx context.Context, agent *models.SalesAgent) error
	ListAgents(ctx context.Context) ([]models.SalesAgent, error)
	FindAgentByID(ctx context.Context, id primitive.ObjectID) (*models.SalesAgent, error)
	AgentEmailExists(ctx context.Context, email string) (bool, error)
	DeleteAgent(ctx context.Context, id primitive.ObjectID) (*models.SalesAgent, error)
}

type LeadStore interface {
	InsertLead(ctx context.Context, lead *models.Lead) error
	FindLeads(ctx context.Context, q models.LeadQuery) ([]models.Lead, error)
	FindLeadViews(ctx context.Context, q models.LeadQuery) ([]models.LeadView, error)
	FindLeadByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error)
	FindLeadViewByID(ctx context.Context, id primitive.ObjectID) (*models.LeadView, error)
	UpdateLead(ctx context.Context, id primitive.ObjectID, update models.LeadUpdate) (*models.Lead, error)
	DeleteLead(ctx context.Context, id primitive.ObjectID) (*models.Lead, error)
}

type CommentStore interface {
	InsertComment(ctx context.Context, comment *models.Comment) error
	FindCommentViews(ctx context.Context, leadID primitive.ObjectID) ([]models.CommentView, error)
}

// EmailReserver holds a short-lived claim on an agent email while the
// uniqueness check and insert run.
type EmailReserver interface {
	Reserve(ctx context.Context, email string) (bool, error)
	Release(ctx context.Context, email string) error
}
