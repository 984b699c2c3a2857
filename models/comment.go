package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a note attached to exactly one lead.
type Comment struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Lead      primitive.ObjectID `json:"lead" bson:"lead"`
	Author    primitive.ObjectID `json:"author" bson:"author"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// CommentView is a comment with lead and author resolved.
type CommentView struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Lead      *Lead              `json:"lead" bson:"lead"`
	Author    *SalesAgent        `json:"author" bson:"author"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type CreateCommentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`

	Mistyped map[string]string `json:"-"`
}

func (r *CreateCommentRequest) UnmarshalJSON(data []byte) error {
	mistyped, err := decodeFields(data, map[string]any{
		"author": &r.Author,
		"text":   &r.Text,
	})
	r.Mistyped = mistyped
	return err
}
