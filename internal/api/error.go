package api

import (
	"errors"
	"net/http"

	"github.com/rubixchain/rubix-dapp/internal/util"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

type Error struct {
	// Code is the http status code of the response
	Code int `json:"code,omitempty"`

	// Message is the error message
	Message string `json:"message,omitempty"`

	// Details is a list of details about the error
	Details []*ErrorDetails `json:"details,omitempty"`
}

type ErrorDetails struct {
	// Type is the specific error type
	Type string `json:"@type,omitempty"`

	// Message is a human readable description of the error
	Message string `json:"message,omitempty"`

	// Domain is the domain of the error
	Domain string `json:"domain,omitempty"`

	// Metadata is additional information about the error
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// ServerError renders an operation error. Errors without a code are
// treated as internal failures.
func ServerError(err error) *Error {
	var opErr *operation.Error
	if !errors.As(err, &opErr) {
		return &Error{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
			Details: []*ErrorDetails{{
				Type:    "ServerError",
				Message: err.Error(),
				Domain:  "server",
			}},
		}
	}

	var message string
	if opErr.Unwrap() != nil {
		message = opErr.Unwrap().Error()
	}

	code := StatusCode(opErr.Code())
	domain := "server"
	if code < 500 {
		domain = "request"
	}

	return &Error{
		Code:    code,
		Message: opErr.Error(),
		Details: []*ErrorDetails{{
			Type:    opErr.Code().String(),
			Message: message,
			Domain:  domain,
		}},
	}
}

func RequestError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: []*ErrorDetails{{
			Type:    "RequestError",
			Message: "Request errors are not retryable since they are caused by invalid client requests",
			Domain:  "request",
		}},
	}
}

func RequestValidationError(err error) *Error {
	details := []*ErrorDetails{}

	for _, err := range util.ParseBindingError(err) {
		details = append(details, &ErrorDetails{
			Type:    "FieldValidationError",
			Message: err,
			Domain:  "request",
		})
	}

	return &Error{
		Code:    http.StatusBadRequest,
		Message: "The request is invalid",
		Details: details,
	}
}

// StatusCode maps an operation error code to an http status code.
func StatusCode(code operation.Code) int {
	switch code {
	case operation.CodeValidation:
		return http.StatusBadRequest
	case operation.CodeConflict:
		return http.StatusConflict
	case operation.CodeRemoteRejection, operation.CodeOperationFailed:
		return http.StatusUnprocessableEntity
	case operation.CodeTransport, operation.CodeUnknownStatus:
		return http.StatusBadGateway
	case operation.CodeCancelled:
		// nginx's client closed request
		return 499
	default:
		return http.StatusInternalServerError
	}
}
