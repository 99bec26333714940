package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/vendor-evaluator/internal/discovery"
	"github.com/jonathan/vendor-evaluator/internal/parsing"
	"github.com/jonathan/vendor-evaluator/internal/research"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var parseErr *parsing.ParseError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.Is(err, discovery.ErrNoCandidates):
		return http.StatusUnprocessableEntity
	case errors.Is(err, research.ErrResearchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
