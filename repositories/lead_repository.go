package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HSouheill/lead_management_backend/models"
)

type LeadRepository struct {
	collection
}

func NewLeadRepository(db *mongo.Database, timeout time.Duration) *LeadRepository {
	return &LeadRepository{collection: newCollection(db, LeadCollection, timeout)}
}

// LeadFilter builds the find filter for q. Each set field adds an exact
// match; UpdatedSince adds a lower bound on updatedAt.
func LeadFilter(q models.LeadQuery) bson.M {
	filter := bson.M{}
	if q.SalesAgent != nil {
		filter["salesAgent"] = *q.SalesAgent
	}
	if q.Status != nil {
		filter["status"] = *q.Status
	}
	if q.Source != nil {
		filter["source"] = *q.Source
	}
	if q.Priority != nil {
		filter["priority"] = *q.Priority
	}
	if q.UpdatedSince != nil {
		filter["updatedAt"] = bson.M{"$gte": *q.UpdatedSince}
	}
	return filter
}

// LeadUpdateDoc builds the $set document for u. updatedAt is always set.
func LeadUpdateDoc(u models.LeadUpdate) bson.M {
	set := bson.M{"updatedAt": u.UpdatedAt}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Source != nil {
		set["source"] = *u.Source
	}
	if u.SalesAgent != nil {
		set["salesAgent"] = *u.SalesAgent
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Tags != nil {
		set["tags"] = *u.Tags
	}
	if u.TimeToClose != nil {
		set["timeToClose"] = *u.TimeToClose
	}
	if u.Priority != nil {
		set["priority"] = *u.Priority
	}
	if u.ClosedAt != nil {
		set["closedAt"] = *u.ClosedAt
	}
	return bson.M{"$set": set}
}

// leadViewPipeline matches leads and resolves their sales agent.
func leadViewPipeline(match bson.M) mongo.Pipeline {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	return append(pipeline, lookupOne(AgentCollection, "salesAgent")...)
}

func (r *LeadRepository) InsertLead(ctx context.Context, lead *models.Lead) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	lead.ApplyDefaults()
	lead.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, lead); err != nil {
		lead.ID = primitive.NilObjectID
		return err
	}
	return nil
}

func (r *LeadRepository) FindLeads(ctx context.Context, q models.LeadQuery) ([]models.Lead, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, LeadFilter(q))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Lead](ctx, cursor)
}

func (r *LeadRepository) FindLeadViews(ctx context.Context, q models.LeadQuery) ([]models.LeadView, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, leadViewPipeline(LeadFilter(q)))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.LeadView](ctx, cursor)
}

func (r *LeadRepository) FindLeadByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var lead models.Lead
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) FindLeadViewByID(ctx context.Context, id primitive.ObjectID) (*models.LeadView, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, leadViewPipeline(bson.M{"_id": id}))
	if err != nil {
		return nil, err
	}
	leads, err := decodeAll[models.LeadView](ctx, cursor)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, ErrNotFound
	}
	return &leads[0], nil
}

// UpdateLead applies u and returns the document as it is after the update.
func (r *LeadRepository) UpdateLead(ctx context.Context, id primitive.ObjectID, u models.LeadUpdate) (*models.Lead, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var lead models.Lead
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, LeadUpdateDoc(u), opts).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) DeleteLead(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var lead models.Lead
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}
