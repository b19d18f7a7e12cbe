package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"display_name" validate:"notblank"`
}

func TestNotBlank(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	assert.NoError(t, v.Struct(sample{Name: "x"}))

	err := v.Struct(sample{Name: "   "})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "display_name", verrs[0].Field())
	assert.Equal(t, "notblank", verrs[0].Tag())
}

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NoError(t, Register())
	assert.NoError(t, Register())
}
