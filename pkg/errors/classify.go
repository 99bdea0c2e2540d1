package errors

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/matzehuels/sankey/pkg/flow"
	graphio "github.com/matzehuels/sankey/pkg/io"
)

var sentinelCodes = []struct {
	target  error
	code    Code
	message string
}{
	{flow.ErrCycle, ErrCodeCycle, "graph cannot be layered"},
	{flow.ErrUnbalanced, ErrCodeUnbalanced, "graph is unbalanced"},
	{flow.ErrUnknownSourceNode, ErrCodeInvalidGraph, "invalid graph"},
	{flow.ErrUnknownTargetNode, ErrCodeInvalidGraph, "invalid graph"},
	{flow.ErrNegativeValue, ErrCodeInvalidGraph, "invalid graph"},
	{flow.ErrInvalidValue, ErrCodeInvalidGraph, "invalid graph"},
	{graphio.ErrEmptyID, ErrCodeInvalidGraph, "invalid graph"},
	{graphio.ErrDuplicateID, ErrCodeInvalidGraph, "invalid graph"},
	{graphio.ErrUnknownNode, ErrCodeInvalidGraph, "invalid graph"},
	{graphio.ErrMalformed, ErrCodeInvalidFormat, "cannot decode graph"},
	{fs.ErrNotExist, ErrCodeFileNotFound, "file not found"},
	{context.DeadlineExceeded, ErrCodeTimeout, "operation timed out"},
}

// Classify returns err as an *Error, assigning a code from the sentinel
// errors it wraps. An err that already carries a code is returned as is.
// Unrecognized errors are classified as internal. Classify(nil) is nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	for _, s := range sentinelCodes {
		if errors.Is(err, s.target) {
			return &Error{Code: s.code, Message: s.message, Cause: err}
		}
	}

	return &Error{Code: ErrCodeInternal, Message: "internal error", Cause: err}
}

// HTTPStatus maps an error code to the HTTP status the API responds with.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeInvalidGraph, ErrCodeCycle, ErrCodeUnbalanced:
		return http.StatusUnprocessableEntity
	case ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
