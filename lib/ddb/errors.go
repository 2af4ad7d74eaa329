package ddb

import (
	"fmt"

	"github.com/aws/smithy-go"
)

// --------------------------------------------------------------------------
// ValidationException
// --------------------------------------------------------------------------

// ValidationException reports a request that is malformed with respect to the
// table schema or the operation contract (missing key attribute, mistyped key
// attribute, invalid set value, conflicting condition inputs, ...).
//
// The AWS SDK does not model this exception as a concrete type, so it is
// defined here. It implements smithy.APIError so callers can match it by
// error code on both the in-process and the network call path.
type ValidationException struct {
	Message string
}

func (e *ValidationException) Error() string {
	return fmt.Sprintf("ValidationException: %s", e.Message)
}

func (e *ValidationException) ErrorCode() string { return "ValidationException" }

func (e *ValidationException) ErrorMessage() string { return e.Message }

func (e *ValidationException) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// NewValidationException creates a ValidationException with a formatted message.
func NewValidationException(format string, args ...interface{}) *ValidationException {
	return &ValidationException{Message: fmt.Sprintf(format, args...)}
}

var _ smithy.APIError = (*ValidationException)(nil)
