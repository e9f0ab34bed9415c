package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerError(t *testing.T) {
	for _, tc := range []struct {
		name    string
		err     error
		code    int
		message string
		domain  string
	}{
		{
			name:    "validation",
			err:     operation.Wrap(operation.Errorf(operation.CodeValidation, "node address and user DID required"), "failed to mint NFT"),
			code:    http.StatusBadRequest,
			message: "failed to mint NFT: node address and user DID required",
			domain:  "request",
		},
		{
			name:    "rejection",
			err:     operation.Errorf(operation.CodeRemoteRejection, "Smart contract execution failed"),
			code:    http.StatusUnprocessableEntity,
			message: "Smart contract execution failed",
			domain:  "request",
		},
		{
			name:    "transport",
			err:     operation.Wrap(errors.New("connection refused"), "failed to create FT"),
			code:    http.StatusBadGateway,
			message: "failed to create FT: connection refused",
			domain:  "server",
		},
		{
			name:    "conflict",
			err:     operation.ErrConflict,
			code:    http.StatusConflict,
			message: "operation already in flight",
			domain:  "request",
		},
		{
			name:    "foreign",
			err:     errors.New("disk full"),
			code:    http.StatusInternalServerError,
			message: "disk full",
			domain:  "server",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ServerError(tc.err)
			assert.Equal(t, tc.code, err.Code)
			assert.Equal(t, tc.message, err.Error())
			require.Len(t, err.Details, 1)
			assert.Equal(t, tc.domain, err.Details[0].Domain)
		})
	}
}

func TestRequestValidationError(t *testing.T) {
	type params struct {
		Name   string `validate:"required"`
		Amount int    `validate:"gt=0"`
	}

	err := validator.New().Struct(&params{})
	require.NotNil(t, err)

	apiErr := RequestValidationError(err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Code)
	require.Len(t, apiErr.Details, 2)
	assert.Equal(t, "The field name is required.", apiErr.Details[0].Message)
	assert.Equal(t, "The field amount must be greater than 0.", apiErr.Details[1].Message)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 499, StatusCode(operation.CodeCancelled))
	assert.Equal(t, http.StatusBadGateway, StatusCode(operation.CodeUnknownStatus))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(0))
}
