package services

// ValidationError reports the first request rule that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an id that does not resolve to a stored document.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports a uniqueness violation, e.g. a duplicate agent email.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func notFound(message string) error {
	return &NotFoundError{Message: message}
}
