// utils/valid.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/lead_management_backend/models"
)

// Validator tags registered by NewValidator.
const (
	TagLeadSource   = "lead_source"
	TagLeadStatus   = "lead_status"
	TagLeadPriority = "lead_priority"
	TagAgentEmail   = "agent_email"
	TagObjectID     = "object_id"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail reports whether email has the user@domain.tld shape accepted
// for sales agents.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidObjectID reports whether id is a 24 character hex ObjectID.
func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// NewValidator returns a validator with the lead enum, agent email and
// ObjectID tags registered. Enum tags check the values declared in models.
func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation(TagLeadSource, func(fl validator.FieldLevel) bool {
		return models.LeadSource(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation(TagLeadStatus, func(fl validator.FieldLevel) bool {
		return models.LeadStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation(TagLeadPriority, func(fl validator.FieldLevel) bool {
		return models.LeadPriority(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation(TagAgentEmail, func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation(TagObjectID, func(fl validator.FieldLevel) bool {
		return IsValidObjectID(fl.Field().String())
	})

	return v
}

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
