package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/lead_management_backend/models"
	"github.com/HSouheill/lead_management_backend/repositories"
	"github.com/HSouheill/lead_management_backend/utils"
)

// Rule messages returned to clients.
const (
	msgNameRequired    = "Name is required and must be a string"
	msgEmailInvalid    = "Email is required and must be a valid email format"
	msgSourceInvalid   = "source is required and must be one of the predefined values"
	msgTimeToClose     = "timeToClose must be a positive integer."
	msgCommentText     = "text is required and must be a string"
	msgAuthorRequired  = "author is required and must be a valid ObjectId"
	msgTagsInvalid     = "tags must be an array of strings."
	msgClosedAtInvalid = "closedAt must be a valid date."
)

var (
	msgStatusInvalid   = "status must be one of " + joinValues(models.LeadStatusValues)
	msgPriorityInvalid = "priority must be one of " + joinValues(models.LeadPriorityValues) + "."
)

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// checkVar runs a single validator tag and turns a failure into a
// ValidationError for field.
func checkVar(v *validator.Validate, field string, value interface{}, tag, message string) error {
	if err := v.Var(value, tag); err != nil {
		return invalid(field, message)
	}
	return nil
}

// parseTimeToClose accepts positive whole numbers only.
func parseTimeToClose(v *float64) (int, error) {
	if v == nil || *v <= 0 || *v != math.Trunc(*v) || *v > math.MaxInt32 {
		return 0, invalid("timeToClose", msgTimeToClose)
	}
	return int(*v), nil
}

func agentIDInvalid(field, id string) error {
	return invalid(field, fmt.Sprintf("Sales agent ID '%s' is not a valid ObjectId.", id))
}

// resolveAgent checks id syntax then existence. A malformed id is a
// validation error, an unknown one is not-found.
func resolveAgent(ctx context.Context, v *validator.Validate, agents AgentStore, field, id string) (primitive.ObjectID, error) {
	if err := v.Var(id, "required,"+utils.TagObjectID); err != nil {
		return primitive.NilObjectID, agentIDInvalid(field, id)
	}
	oid, _ := primitive.ObjectIDFromHex(id)

	if _, err := agents.FindAgentByID(ctx, oid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return primitive.NilObjectID, notFound(fmt.Sprintf("Sales agent with ID '%s' not found.", id))
		}
		return primitive.NilObjectID, fmt.Errorf("find sales agent: %w", err)
	}
	return oid, nil
}

// checkField is checkVar for a request field that may have arrived with
// the wrong JSON type. A mistyped field fails its own rule.
func checkField(v *validator.Validate, mistyped map[string]string, field string, value interface{}, tag, message string) error {
	if _, ok := mistyped[field]; ok {
		return invalid(field, message)
	}
	return checkVar(v, field, value, tag, message)
}

// validateAgent checks a creation request in order; the first failing rule
// is reported. The email uniqueness lookup is done by the caller.
func validateAgent(v *validator.Validate, req models.CreateAgentRequest) error {
	if err := checkField(v, req.Mistyped, "name", req.Name, "required", msgNameRequired); err != nil {
		return err
	}
	return checkField(v, req.Mistyped, "email", req.Email, "required,"+utils.TagAgentEmail, msgEmailInvalid)
}

// validateLead checks a creation request in order and builds the lead to
// store. Only the sales agent rule touches the store.
func validateLead(ctx context.Context, v *validator.Validate, agents AgentStore, req models.CreateLeadRequest) (*models.Lead, error) {
	if err := checkField(v, req.Mistyped, "name", req.Name, "required", msgNameRequired); err != nil {
		return nil, err
	}
	if err := checkField(v, req.Mistyped, "source", req.Source, "required,"+utils.TagLeadSource, msgSourceInvalid); err != nil {
		return nil, err
	}

	if raw, ok := req.Mistyped["salesAgent"]; ok {
		return nil, agentIDInvalid("salesAgent", raw)
	}
	agentID, err := resolveAgent(ctx, v, agents, "salesAgent", req.SalesAgent)
	if err != nil {
		return nil, err
	}

	status := models.DefaultLeadStatus
	if _, mistyped := req.Mistyped["status"]; mistyped || req.Status != "" {
		if err := checkField(v, req.Mistyped, "status", req.Status, utils.TagLeadStatus, msgStatusInvalid); err != nil {
			return nil, err
		}
		status = models.LeadStatus(req.Status)
	}

	if _, ok := req.Mistyped["timeToClose"]; ok {
		return nil, invalid("timeToClose", msgTimeToClose)
	}
	timeToClose, err := parseTimeToClose(req.TimeToClose)
	if err != nil {
		return nil, err
	}

	if err := checkField(v, req.Mistyped, "priority", req.Priority, "required,"+utils.TagLeadPriority, msgPriorityInvalid); err != nil {
		return nil, err
	}

	if _, ok := req.Mistyped["tags"]; ok {
		return nil, invalid("tags", msgTagsInvalid)
	}

	return &models.Lead{
		Name:        req.Name,
		Source:      models.LeadSource(req.Source),
		SalesAgent:  agentID,
		Status:      status,
		Tags:        utils.NormalizeTags(req.Tags),
		TimeToClose: timeToClose,
		Priority:    models.LeadPriority(req.Priority),
	}, nil
}

// validateLeadUpdate applies the creation rules to every field present in
// the patch, in the same order.
func validateLeadUpdate(ctx context.Context, v *validator.Validate, agents AgentStore, req models.UpdateLeadRequest) (models.LeadUpdate, error) {
	var u models.LeadUpdate
	mistyped := func(field string) bool {
		_, ok := req.Mistyped[field]
		return ok
	}

	if mistyped("name") {
		return u, invalid("name", msgNameRequired)
	}
	if req.Name != nil {
		if err := checkVar(v, "name", *req.Name, "required", msgNameRequired); err != nil {
			return u, err
		}
		u.Name = req.Name
	}

	if mistyped("source") {
		return u, invalid("source", msgSourceInvalid)
	}
	if req.Source != nil {
		if err := checkVar(v, "source", *req.Source, "required,"+utils.TagLeadSource, msgSourceInvalid); err != nil {
			return u, err
		}
		source := models.LeadSource(*req.Source)
		u.Source = &source
	}

	if mistyped("salesAgent") {
		return u, agentIDInvalid("salesAgent", req.Mistyped["salesAgent"])
	}
	if req.SalesAgent != nil {
		agentID, err := resolveAgent(ctx, v, agents, "salesAgent", *req.SalesAgent)
		if err != nil {
			return u, err
		}
		u.SalesAgent = &agentID
	}

	if mistyped("status") {
		return u, invalid("status", msgStatusInvalid)
	}
	if req.Status != nil {
		if err := checkVar(v, "status", *req.Status, "required,"+utils.TagLeadStatus, msgStatusInvalid); err != nil {
			return u, err
		}
		status := models.LeadStatus(*req.Status)
		u.Status = &status
	}

	if mistyped("timeToClose") {
		return u, invalid("timeToClose", msgTimeToClose)
	}
	if req.TimeToClose != nil {
		timeToClose, err := parseTimeToClose(req.TimeToClose)
		if err != nil {
			return u, err
		}
		u.TimeToClose = &timeToClose
	}

	if mistyped("priority") {
		return u, invalid("priority", msgPriorityInvalid)
	}
	if req.Priority != nil {
		if err := checkVar(v, "priority", *req.Priority, "required,"+utils.TagLeadPriority, msgPriorityInvalid); err != nil {
			return u, err
		}
		priority := models.LeadPriority(*req.Priority)
		u.Priority = &priority
	}

	if mistyped("tags") {
		return u, invalid("tags", msgTagsInvalid)
	}
	if req.Tags != nil {
		tags := utils.NormalizeTags(*req.Tags)
		u.Tags = &tags
	}

	if mistyped("closedAt") {
		return u, invalid("closedAt", msgClosedAtInvalid)
	}
	u.ClosedAt = req.ClosedAt

	return u, nil
}

// validateLeadFilter converts query parameters into a store query. Enum
// values are matched as given; an unknown value simply matches nothing.
func validateLeadFilter(v *validator.Validate, f models.LeadFilter) (models.LeadQuery, error) {
	var q models.LeadQuery

	if f.SalesAgent != "" {
		if err := checkVar(v, "salesAgent", f.SalesAgent, utils.TagObjectID,
			fmt.Sprintf("Sales agent ID '%s' is not a valid ObjectId.", f.SalesAgent)); err != nil {
			return q, err
		}
		oid, _ := primitive.ObjectIDFromHex(f.SalesAgent)
		q.SalesAgent = &oid
	}
	if f.Status != "" {
		status := models.LeadStatus(f.Status)
		q.Status = &status
	}
	if f.Source != "" {
		source := models.LeadSource(f.Source)
		q.Source = &source
	}
	if f.Priority != "" {
		priority := models.LeadPriority(f.Priority)
		q.Priority = &priority
	}
	return q, nil
}
