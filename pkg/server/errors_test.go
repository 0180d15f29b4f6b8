package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"invalid request", mserrors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{"schema mismatch", mserrors.ErrCodeSchema, http.StatusUnprocessableEntity},
		{"thin options absent", mserrors.ErrCodeThinProvisioningOptionsAbsent, http.StatusNotFound},
		{"not ready", mserrors.ErrCodeNotReady, http.StatusServiceUnavailable},
		{"internal", mserrors.ErrCodeInternal, http.StatusInternalServerError},
		{"unknown defaults to internal", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromCode(tt.code); got != tt.want {
				t.Fatalf("HTTPStatusFromCode(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestRetryableFromCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"invalid request", mserrors.ErrCodeInvalidRequest, false},
		{"schema mismatch", mserrors.ErrCodeSchema, false},
		{"thin options absent", mserrors.ErrCodeThinProvisioningOptionsAbsent, false},
		{"not ready", mserrors.ErrCodeNotReady, true},
		{"internal", mserrors.ErrCodeInternal, true},
		{"unknown defaults false", "SOMETHING_ELSE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableFromCode(tt.code); got != tt.want {
				t.Fatalf("retryableFromCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestWriteError_WritesErrorResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-123"))
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusBadRequest,
		mserrors.ErrCodeInvalidRequest, "bad request", false, map[string]any{"k": "v"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != mserrors.ErrCodeInvalidRequest {
		t.Errorf("expected code %q, got %q", mserrors.ErrCodeInvalidRequest, resp.Code)
	}
	if resp.Message != "bad request" {
		t.Errorf("expected message %q, got %q", "bad request", resp.Message)
	}
	if resp.RequestID != "req-123" {
		t.Errorf("expected requestId %q, got %q", "req-123", resp.RequestID)
	}
	if resp.Retryable {
		t.Error("expected retryable=false")
	}
	if resp.Details == nil || resp.Details["k"].(string) != "v" {
		t.Errorf("expected details to include k=v, got %#v", resp.Details)
	}
}

func TestWriteErrorFromErr_StructuredErrorMapsStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	err := mserrors.New(mserrors.ErrCodeNotReady, "rollout still in progress")
	WriteErrorFromErr(w, req, err, "fallback")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var resp ErrorResponse
	if uerr := json.Unmarshal(w.Body.Bytes(), &resp); uerr != nil {
		t.Fatalf("failed to unmarshal response: %v", uerr)
	}
	if resp.Code != mserrors.ErrCodeNotReady {
		t.Errorf("expected code %q, got %q", mserrors.ErrCodeNotReady, resp.Code)
	}
	if !resp.Retryable {
		t.Error("expected retryable=true")
	}
	if resp.RequestID == "" {
		t.Error("expected a generated request ID")
	}
}

func TestWriteErrorFromErr_PlainErrorFallsBackToInternal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	WriteErrorFromErr(w, req, errors.New("boom"), "fallback")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != mserrors.ErrCodeInternal {
		t.Errorf("expected code %q, got %q", mserrors.ErrCodeInternal, resp.Code)
	}
	if resp.Message != "fallback" {
		t.Errorf("expected fallback message, got %q", resp.Message)
	}
	if resp.Details["error"].(string) != "boom" {
		t.Errorf("expected cause in details, got %#v", resp.Details)
	}
}
