package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/shared/errors"
)

type sampleTicketForm struct {
	Name        string `json:"name" validate:"required,max=10"`
	Email       string `json:"email" validate:"required,email"`
	Description string `json:"description" validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		err := ValidateStruct(sampleTicketForm{Name: "Jane", Email: "jane@example.com", Description: "Login broken"})
		assert.NoError(t, err)
	})

	t.Run("messages use json field names", func(t *testing.T) {
		err := ValidateStruct(sampleTicketForm{Name: "Jane Doe the Third", Email: "nope"})
		require.Error(t, err)

		appErr := errors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
		assert.Contains(t, appErr.Details, "name must be at most 10 characters long")
		assert.Contains(t, appErr.Details, "email must be a valid email address")
		assert.Contains(t, appErr.Details, "description is required")
	})
}
