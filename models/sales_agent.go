package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SalesAgent struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// CreateAgentRequest is the body of POST /agents
type CreateAgentRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`

	// Mistyped holds the raw JSON of fields sent with the wrong type.
	Mistyped map[string]string `json:"-"`
}

func (r *CreateAgentRequest) UnmarshalJSON(data []byte) error {
	mistyped, err := decodeFields(data, map[string]any{
		"name":  &r.Name,
		"email": &r.Email,
	})
	r.Mistyped = mistyped
	return err
}
