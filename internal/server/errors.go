package server

import (
	"errors"
	"net/http"

	"github.com/mathieu/cvforge/internal/extraction"
	"github.com/mathieu/cvforge/internal/pipeline"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *pipeline.NotFoundError
	var validation *extraction.ValidationError
	var collaborator *extraction.CollaboratorError
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &collaborator):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
