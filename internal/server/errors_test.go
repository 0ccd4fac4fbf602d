package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mathieu/cvforge/internal/extraction"
	"github.com/mathieu/cvforge/internal/pipeline"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			"not found",
			&pipeline.NotFoundError{Kind: "template", ID: uuid.New()},
			http.StatusNotFound,
		},
		{
			"wrapped not found",
			fmt.Errorf("context: %w", &pipeline.NotFoundError{Kind: "document", ID: uuid.New()}),
			http.StatusNotFound,
		},
		{
			"validation rejection",
			&extraction.ValidationError{Violations: []string{"contains email address"}},
			http.StatusUnprocessableEntity,
		},
		{
			"collaborator failure",
			&extraction.CollaboratorError{Message: "generation call failed"},
			http.StatusBadGateway,
		},
		{
			"anything else",
			errors.New("disk full"),
			http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
