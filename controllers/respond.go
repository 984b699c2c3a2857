package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/lead_management_backend/models"
	"github.com/HSouheill/lead_management_backend/services"
)

// statusMap gives the HTTP status of each error kind for one endpoint.
// Validation failures can be keyed per field; "" is the fallback.
type statusMap struct {
	validation map[string]int
	notFound   int
	conflict   int
}

func (m statusMap) validationStatus(field string) int {
	if code, ok := m.validation[field]; ok {
		return code
	}
	if code, ok := m.validation[""]; ok {
		return code
	}
	return http.StatusBadRequest
}

func errorJSON(c echo.Context, code int, message string) error {
	return c.JSON(code, models.ErrorResponse{Error: message})
}

// respondError writes err with the status m assigns to its kind. Unknown
// errors are store failures: the cause is logged and the client gets
// internalMessage.
func respondError(c echo.Context, err error, m statusMap, internalMessage string) error {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		return errorJSON(c, m.validationStatus(validationErr.Field), validationErr.Message)
	case errors.As(err, &notFoundErr):
		return errorJSON(c, orDefault(m.notFound, http.StatusNotFound), notFoundErr.Message)
	case errors.As(err, &conflictErr):
		return errorJSON(c, orDefault(m.conflict, http.StatusConflict), conflictErr.Message)
	}

	slog.ErrorContext(c.Request().Context(), "request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"error", err,
	)
	return errorJSON(c, http.StatusInternalServerError, internalMessage)
}

// rejectionReason names the rule behind a rejected write for metrics.
func rejectionReason(err error) (string, bool) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Field, true
	case errors.As(err, &notFoundErr):
		return "not_found", true
	case errors.As(err, &conflictErr):
		return "conflict", true
	}
	return "", false
}

func orDefault(code, fallback int) int {
	if code == 0 {
		return fallback
	}
	return code
}
