package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/lead_management_backend/models"
)

type AgentRepository struct {
	collection
}

func NewAgentRepository(db *mongo.Database, timeout time.Duration) *AgentRepository {
	return &AgentRepository{collection: newCollection(db, AgentCollection, timeout)}
}

func (r *AgentRepository) InsertAgent(ctx context.Context, agent *models.SalesAgent) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	agent.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, agent); err != nil {
		agent.ID = primitive.NilObjectID
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *AgentRepository) ListAgents(ctx context.Context) ([]models.SalesAgent, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return decodeAll[models.SalesAgent](ctx, cursor)
}

func (r *AgentRepository) FindAgentByID(ctx context.Context, id primitive.ObjectID) (*models.SalesAgent, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var agent models.SalesAgent
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&agent)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// AgentEmailExists matches the email exactly, case included.
func (r *AgentRepository) AgentEmailExists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *AgentRepository) DeleteAgent(ctx context.Context, id primitive.ObjectID) (*models.SalesAgent, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var agent models.SalesAgent
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&agent)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}
