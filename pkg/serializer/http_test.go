package serializer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]any{"status": "ready", "code": 200}

	RespondJSON(w, http.StatusOK, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var result map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if result["status"] != "ready" {
		t.Errorf("unexpected body: %v", result)
	}
}

func TestRespondJSON_EncodingErrorDoesNotWriteHeaders(t *testing.T) {
	w := httptest.NewRecorder()

	// Channels cannot be marshaled; the failure must surface as a 500, not
	// as a 200 with a broken body.
	RespondJSON(w, http.StatusOK, make(chan int))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if w.Body.Len() == 0 {
		t.Error("expected error message in body")
	}
}

func TestRespondJSON_NilBody(t *testing.T) {
	w := httptest.NewRecorder()

	RespondJSON(w, http.StatusOK, nil)

	if got := w.Body.String(); got != "null\n" {
		t.Errorf("expected 'null\\n', got %q", got)
	}
}
