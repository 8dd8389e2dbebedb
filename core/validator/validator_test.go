package validator_test

import (
	"testing"

	"github.com/goto/sieve/core/validator"
	"gotest.tools/assert"
)

func TestValidateStruct(t *testing.T) {
	type DummyStruct struct {
		VarOneOf    string  `json:"varoneof" validate:"omitempty,oneof=asc desc"`
		VarRequired string  `json:"varrequired" validate:"required"`
		VarFloat    float64 `json:"varfloat" validate:"gte=0,lte=1"`
	}

	type TestCase struct {
		Description string
		Struct      interface{}
		ErrString   string
	}

	testCases := []TestCase{
		{
			Description: "return error with supported values in oneof type validation",
			Struct: DummyStruct{
				VarOneOf:    "random",
				VarRequired: "x",
			},
			ErrString: "error value \"random\" for key \"varoneof\" not recognized, only support \"asc desc\"",
		},
		{
			Description: "return error when required field is empty",
			Struct:      DummyStruct{},
			ErrString:   "varrequired is required",
		},
		{
			Description: "return error should not be less than 0",
			Struct: DummyStruct{
				VarRequired: "x",
				VarFloat:    -0.5,
			},
			ErrString: "varfloat cannot be less than 0",
		},
		{
			Description: "return error should not be greater than 1",
			Struct: DummyStruct{
				VarRequired: "x",
				VarFloat:    1.5,
			},
			ErrString: "varfloat cannot be greater than 1",
		},
		{
			Description: "join multiple violations",
			Struct: DummyStruct{
				VarOneOf: "up",
				VarFloat: 2,
			},
			ErrString: "error value \"up\" for key \"varoneof\" not recognized, only support \"asc desc\" and varrequired is required and varfloat cannot be greater than 1",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			err := validator.ValidateStruct(tc.Struct)
			assert.Equal(t, tc.ErrString, err.Error())
		})
	}

	t.Run("return nil for a valid struct", func(t *testing.T) {
		err := validator.ValidateStruct(DummyStruct{VarOneOf: "asc", VarRequired: "x", VarFloat: 0.3})
		assert.NilError(t, err)
	})
}

func TestValidateOneOf(t *testing.T) {
	type TestCase struct {
		Description string
		Value       string
		Enums       []string
		ErrString   string
	}

	testCases := []TestCase{
		{
			Description: "return error with supported values",
			Value:       "sideways",
			Enums:       []string{"asc", "desc"},
			ErrString:   "error value \"sideways\" not recognized, only support \"asc desc\"",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			err := validator.ValidateOneOf(tc.Value, tc.Enums...)
			assert.Equal(t, tc.ErrString, err.Error())
		})
	}

	t.Run("empty value is accepted", func(t *testing.T) {
		assert.NilError(t, validator.ValidateOneOf("", "asc", "desc"))
	})
}
