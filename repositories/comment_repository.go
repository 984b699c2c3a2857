package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/lead_management_backend/models"
)

type CommentRepository struct {
	collection
}

func NewCommentRepository(db *mongo.Database, timeout time.Duration) *CommentRepository {
	return &CommentRepository{collection: newCollection(db, CommentCollection, timeout)}
}

// commentViewPipeline selects the comments of one lead and resolves both
// the lead and the author.
func commentViewPipeline(leadID primitive.ObjectID) mongo.Pipeline {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"lead": leadID}}}}
	pipeline = append(pipeline, lookupOne(LeadCollection, "lead")...)
	return append(pipeline, lookupOne(AgentCollection, "author")...)
}

func (r *CommentRepository) InsertComment(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	comment.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, comment); err != nil {
		comment.ID = primitive.NilObjectID
		return err
	}
	return nil
}

func (r *CommentRepository) FindCommentViews(ctx context.Context, leadID primitive.ObjectID) ([]models.CommentView, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, commentViewPipeline(leadID))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.CommentView](ctx, cursor)
}
