package util

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type params struct {
	Name   string  `validate:"required"`
	Supply int     `validate:"gt=0"`
	Value  float64 `validate:"gte=0"`
	Family string  `validate:"oneof=nft ft"`
}

func TestParseBindingError(t *testing.T) {
	testCases := []struct {
		name     string
		params   params
		expected []string
	}{
		{
			name:   "valid",
			params: params{Name: "gold", Supply: 1, Family: "nft"},
		},
		{
			name:   "required",
			params: params{Supply: 1, Family: "ft"},
			expected: []string{
				"The field name is required.",
			},
		},
		{
			name:   "multiple",
			params: params{Name: "gold", Value: -1, Family: "coin"},
			expected: []string{
				"The field supply must be greater than 0.",
				"The field value must be greater than or equal to 0.",
				"The field family must be one of nft, or ft.",
			},
		},
	}

	v := validator.New()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.params)
			if tc.expected == nil {
				assert.Nil(t, err)
				return
			}

			assert.Equal(t, tc.expected, ParseBindingError(err))
		})
	}
}

func TestParseBindingErrorPassthrough(t *testing.T) {
	assert.Equal(t, []string{"boom"}, ParseBindingError(errors.New("boom")))
}
