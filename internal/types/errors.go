package types

import "fmt"

// FieldError describes an invalid field on one of the pipeline entities.
type FieldError struct {
	Entity  string
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Entity, e.Field, e.Message)
}
