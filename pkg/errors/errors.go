/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

package errors

import (
	"errors"
	"fmt"
)

// Error codes as constants
const (
	// ErrCodeSchema indicates a chart document did not match the expected
	// schema: a required key was missing, a value had the wrong type, or a
	// version string failed to parse.
	ErrCodeSchema = "SCHEMA_MISMATCH"

	// ErrCodeThinProvisioningOptionsAbsent indicates the optional
	// agents.core.capacity subtree was not present in the values document.
	// This is an expected configuration state (thin provisioning disabled),
	// not malformed input.
	ErrCodeThinProvisioningOptionsAbsent = "THIN_PROVISIONING_OPTIONS_ABSENT"

	// ErrCodeInvalidRequest indicates invalid caller input (flags, paths,
	// references).
	ErrCodeInvalidRequest = "INVALID_REQUEST"

	// ErrCodeNotReady indicates a cluster resource did not reach the desired
	// state in time.
	ErrCodeNotReady = "NOT_READY"

	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal = "INTERNAL_ERROR"
)

// StructuredError is an error with a stable machine-readable code.
// Callers branch on Code (via errors.As or the predicate helpers) instead of
// matching message text.
type StructuredError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *StructuredError) Unwrap() error {
	return e.Err
}

// New creates a StructuredError with the given code and message.
func New(code, format string, args ...any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a StructuredError that wraps an underlying cause.
func Wrap(err error, code, format string, args ...any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// CodeOf returns the code of the nearest StructuredError in err's chain,
// or the empty string if there is none.
func CodeOf(err error) string {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsSchema reports whether err is (or wraps) a schema-mismatch error.
func IsSchema(err error) bool {
	return CodeOf(err) == ErrCodeSchema
}

// IsThinProvisioningOptionsAbsent reports whether err is (or wraps) the
// distinguished absent-capacity error. Callers use this to decide whether
// thin-provisioning logic should run at all.
func IsThinProvisioningOptionsAbsent(err error) bool {
	return CodeOf(err) == ErrCodeThinProvisioningOptionsAbsent
}
