package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead is the stored shape of a sales prospect.
type Lead struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Source      LeadSource         `json:"source" bson:"source"`
	SalesAgent  primitive.ObjectID `json:"salesAgent" bson:"salesAgent"`
	Status      LeadStatus         `json:"status" bson:"status"`
	Tags        []string           `json:"tags" bson:"tags"`
	TimeToClose int                `json:"timeToClose" bson:"timeToClose"`
	Priority    LeadPriority       `json:"priority" bson:"priority"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
	ClosedAt    *time.Time         `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}

// ApplyDefaults fills the fields a stored lead must always carry.
func (l *Lead) ApplyDefaults() {
	if l.Status == "" {
		l.Status = DefaultLeadStatus
	}
	if l.Priority == "" {
		l.Priority = DefaultLeadPriority
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
}

// LeadView is a lead with its sales agent resolved. SalesAgent is nil when
// the referenced agent no longer exists.
type LeadView struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Source      LeadSource         `json:"source" bson:"source"`
	SalesAgent  *SalesAgent        `json:"salesAgent" bson:"salesAgent"`
	Status      LeadStatus         `json:"status" bson:"status"`
	Tags        []string           `json:"tags" bson:"tags"`
	TimeToClose int                `json:"timeToClose" bson:"timeToClose"`
	Priority    LeadPriority       `json:"priority" bson:"priority"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
	ClosedAt    *time.Time         `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}

// LeadFilter holds the optional exact-match predicates of GET /leads.
// Empty fields impose no constraint.
type LeadFilter struct {
	SalesAgent string `query:"salesAgent"`
	Status     string `query:"status"`
	Source     string `query:"source"`
	Priority   string `query:"priority"`
}

// LeadQuery is a LeadFilter after validation, plus the lower bound on
// updatedAt used by the weekly report. Nil fields impose no constraint.
type LeadQuery struct {
	SalesAgent   *primitive.ObjectID
	Status       *LeadStatus
	Source       *LeadSource
	Priority     *LeadPriority
	UpdatedSince *time.Time
}

// CreateLeadRequest is the body of POST /leads. Fields stay loosely typed
// until validation has passed; values of the wrong JSON type are kept in
// Mistyped rather than failing the bind.
type CreateLeadRequest struct {
	Name        string   `json:"name"`
	Source      string   `json:"source"`
	SalesAgent  string   `json:"salesAgent"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	TimeToClose *float64 `json:"timeToClose"`
	Priority    string   `json:"priority"`

	Mistyped map[string]string `json:"-"`
}

func (r *CreateLeadRequest) UnmarshalJSON(data []byte) error {
	mistyped, err := decodeFields(data, map[string]any{
		"name":        &r.Name,
		"source":      &r.Source,
		"salesAgent":  &r.SalesAgent,
		"status":      &r.Status,
		"tags":        &r.Tags,
		"timeToClose": &r.TimeToClose,
		"priority":    &r.Priority,
	})
	r.Mistyped = mistyped
	return err
}

// UpdateLeadRequest is a partial update; nil fields are left untouched
// unless they are listed in Mistyped.
type UpdateLeadRequest struct {
	Name        *string    `json:"name"`
	Source      *string    `json:"source"`
	SalesAgent  *string    `json:"salesAgent"`
	Status      *string    `json:"status"`
	Tags        *[]string  `json:"tags"`
	TimeToClose *float64   `json:"timeToClose"`
	Priority    *string    `json:"priority"`
	ClosedAt    *time.Time `json:"closedAt"`

	Mistyped map[string]string `json:"-"`
}

func (r *UpdateLeadRequest) UnmarshalJSON(data []byte) error {
	mistyped, err := decodeFields(data, map[string]any{
		"name":        &r.Name,
		"source":      &r.Source,
		"salesAgent":  &r.SalesAgent,
		"status":      &r.Status,
		"tags":        &r.Tags,
		"timeToClose": &r.TimeToClose,
		"priority":    &r.Priority,
		"closedAt":    &r.ClosedAt,
	})
	r.Mistyped = mistyped
	return err
}

// LeadUpdate is a validated UpdateLeadRequest ready for the store.
type LeadUpdate struct {
	Name        *string
	Source      *LeadSource
	SalesAgent  *primitive.ObjectID
	Status      *LeadStatus
	Tags        *[]string
	TimeToClose *int
	Priority    *LeadPriority
	ClosedAt    *time.Time
	UpdatedAt   time.Time
}
