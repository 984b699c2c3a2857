package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names.
const (
	AgentCollection   = "salesAgents"
	LeadCollection    = "leads"
	CommentCollection = "comments"
)

// DefaultTimeout bounds each store call when the caller sets none.
const DefaultTimeout = 10 * time.Second

type collection struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func newCollection(db *mongo.Database, name string, timeout time.Duration) collection {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return collection{coll: db.Collection(name), timeout: timeout}
}

func (c collection) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, c.timeout)
}

// lookupOne resolves the reference stored in field into the referenced
// document from the from collection. A dangling reference leaves the field
// absent.
func lookupOne(from, field string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   field,
			"foreignField": "_id",
			"as":           field,
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$" + field,
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	out := []T{}
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cursor.Err()
}

// MongoPinger adapts a client to the health check.
type MongoPinger struct {
	Client *mongo.Client
}

func (p MongoPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx, nil)
}
