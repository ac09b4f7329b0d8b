package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Score *int   `json:"score" validate:"required,min=0,max=100"`
	Kind  string `json:"kind" validate:"omitempty,oneof=casual serious"`
}

func TestValidateStructOK(t *testing.T) {
	score := 40
	assert.NoError(t, ValidateStruct(&sample{Name: "a", Score: &score, Kind: "serious"}))
}

func TestValidateStructFieldErrors(t *testing.T) {
	score := 140
	err := ValidateStruct(&sample{Score: &score, Kind: "weekly"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)

	byField := map[string]FieldError{}
	for _, f := range verr.Fields {
		byField[f.Field] = f
	}
	assert.Equal(t, "name is required", byField["name"].Message)
	assert.Equal(t, "score must be at most 100", byField["score"].Message)
	assert.Equal(t, "kind must be one of: casual serious", byField["kind"].Message)
}

func TestValidateStructMissingPointer(t *testing.T) {
	err := ValidateStruct(&sample{Name: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score is required")
}
