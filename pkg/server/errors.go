package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
	"github.com/openebs/mayastor-upgrade/pkg/serializer"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code      string         `json:"code" yaml:"code"`
	Message   string         `json:"message" yaml:"message"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	RequestID string         `json:"requestId" yaml:"requestId"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Retryable bool           `json:"retryable" yaml:"retryable"`
}

// WriteError writes an error response envelope.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr maps a structured error onto the envelope. Errors without
// a code fall back to an internal error with fallbackMessage.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	code := mserrors.CodeOf(err)
	message := fallbackMessage
	if code == "" {
		code = mserrors.ErrCodeInternal
	} else {
		message = err.Error()
	}

	WriteError(w, r, HTTPStatusFromCode(code), code, message, retryableFromCode(code),
		map[string]any{"error": err.Error()})
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case mserrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case mserrors.ErrCodeSchema:
		return http.StatusUnprocessableEntity
	case mserrors.ErrCodeThinProvisioningOptionsAbsent:
		return http.StatusNotFound
	case mserrors.ErrCodeNotReady:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// retryableFromCode reports whether a client may retry the request as-is.
func retryableFromCode(code string) bool {
	switch code {
	case mserrors.ErrCodeNotReady, mserrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}
