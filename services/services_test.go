package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/lead_management_backend/models"
	"github.com/HSouheill/lead_management_backend/repositories"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func ptr[T any](v T) *T { return &v }

var errStoreDown = errors.New("connection refused")

// failingStore fails every call, standing in for an unreachable database.
type failingStore struct{}

func (failingStore) InsertAgent(context.Context, *models.SalesAgent) error { return errStoreDown }
func (failingStore) ListAgents(context.Context) ([]models.SalesAgent, error) {
	return nil, errStoreDown
}
func (failingStore) FindAgentByID(context.Context, primitive.ObjectID) (*models.SalesAgent, error) {
	return nil, errStoreDown
}
func (failingStore) AgentEmailExists(context.Context, string) (bool, error) {
	return false, errStoreDown
}
func (failingStore) DeleteAgent(context.Context, primitive.ObjectID) (*models.SalesAgent, error) {
	return nil, errStoreDown
}
func (failingStore) InsertLead(context.Context, *models.Lead) error { return errStoreDown }
func (failingStore) FindLeads(context.Context, models.LeadQuery) ([]models.Lead, error) {
	return nil, errStoreDown
}
func (failingStore) FindLeadViews(context.Context, models.LeadQuery) ([]models.LeadView, error) {
	return nil, errStoreDown
}
func (failingStore) FindLeadByID(context.Context, primitive.ObjectID) (*models.Lead, error) {
	return nil, errStoreDown
}
func (failingStore) FindLeadViewByID(context.Context, primitive.ObjectID) (*models.LeadView, error) {
	return nil, errStoreDown
}
func (failingStore) UpdateLead(context.Context, primitive.ObjectID, models.LeadUpdate) (*models.Lead, error) {
	return nil, errStoreDown
}
func (failingStore) DeleteLead(context.Context, primitive.ObjectID) (*models.Lead, error) {
	return nil, errStoreDown
}
func (failingStore) InsertComment(context.Context, *models.Comment) error { return errStoreDown }
func (failingStore) FindCommentViews(context.Context, primitive.ObjectID) ([]models.CommentView, error) {
	return nil, errStoreDown
}

// seedAgent stores an agent directly and returns it.
func seedAgent(store *repositories.MemoryStore, name, email string) models.SalesAgent {
	agent := models.SalesAgent{Name: name, Email: email, CreatedAt: testNow}
	if err := store.InsertAgent(context.Background(), &agent); err != nil {
		panic(err)
	}
	return agent
}

func validLeadRequest(agentID string) models.CreateLeadRequest {
	return models.CreateLeadRequest{
		Name:        "Acme",
		Source:      "Website",
		SalesAgent:  agentID,
		Status:      "New",
		TimeToClose: ptr(10.0),
		Priority:    "Medium",
	}
}
