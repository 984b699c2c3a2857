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
	"github.com/HSouheill/lead_management_backend/utils"
)

type CommentService struct {
	comments CommentStore
	leads    LeadStore
	agents   AgentStore
	validate *validator.Validate
	now      func() time.Time
}

type CommentOption func(*CommentService)

func WithCommentClock(now func() time.Time) CommentOption {
	return func(s *CommentService) { s.now = now }
}

func NewCommentService(comments CommentStore, leads LeadStore, agents AgentStore, validate *validator.Validate, opts ...CommentOption) *CommentService {
	s := &CommentService{comments: comments, leads: leads, agents: agents, validate: validate, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create attaches a new comment to the lead with id leadID.
func (s *CommentService) Create(ctx context.Context, leadID string, req models.CreateCommentRequest) (*models.Comment, error) {
	leadOID, err := primitive.ObjectIDFromHex(leadID)
	if err != nil {
		return nil, notFound("No comment create.")
	}
	if _, err := s.leads.FindLeadByID(ctx, leadOID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(fmt.Sprintf("Lead with ID '%s' not found.", leadID))
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}

	if err := checkField(s.validate, req.Mistyped, "author", req.Author, "required,"+utils.TagObjectID, msgAuthorRequired); err != nil {
		return nil, err
	}
	authorID, err := resolveAgent(ctx, s.validate, s.agents, "author", req.Author)
	if err != nil {
		return nil, err
	}
	if err := checkField(s.validate, req.Mistyped, "text", req.Text, "required", msgCommentText); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Lead:      leadOID,
		Author:    authorID,
		Text:      req.Text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.comments.InsertComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return comment, nil
}

// ListForLead returns the comments of a lead with lead and author resolved.
// A malformed lead id is a validation error, not a miss.
func (s *CommentService) ListForLead(ctx context.Context, leadID string) ([]models.CommentView, error) {
	if err := checkVar(s.validate, "lead", leadID, "required,"+utils.TagObjectID,
		"lead ID is not a valid ObjectId."); err != nil {
		return nil, err
	}
	oid, _ := primitive.ObjectIDFromHex(leadID)

	comments, err := s.comments.FindCommentViews(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	return comments, nil
}
