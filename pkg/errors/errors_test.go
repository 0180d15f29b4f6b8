package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestStructuredError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeSchema, "missing key %q", "image.tag"),
			want: `SCHEMA_MISMATCH: missing key "image.tag"`,
		},
		{
			name: "with cause",
			err:  Wrap(errors.New("boom"), ErrCodeInternal, "load failed"),
			want: "INTERNAL_ERROR: load failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStructuredError_UnwrapChain(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, ErrCodeSchema, "decode failed")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	// Wrapping with %w must keep the code reachable via errors.As.
	outer := fmt.Errorf("loading values: %w", err)
	var se *StructuredError
	if !errors.As(outer, &se) {
		t.Fatalf("expected StructuredError in chain, got %T", outer)
	}
	if se.Code != ErrCodeSchema {
		t.Errorf("Code = %s, want %s", se.Code, ErrCodeSchema)
	}
}

func TestCodePredicates(t *testing.T) {
	schemaErr := New(ErrCodeSchema, "bad document")
	absentErr := New(ErrCodeThinProvisioningOptionsAbsent, "no capacity configured")

	if !IsSchema(schemaErr) {
		t.Error("IsSchema should match a schema error")
	}
	if IsSchema(absentErr) {
		t.Error("IsSchema should not match the absent-capacity error")
	}
	if !IsThinProvisioningOptionsAbsent(absentErr) {
		t.Error("IsThinProvisioningOptionsAbsent should match")
	}
	if IsThinProvisioningOptionsAbsent(schemaErr) {
		t.Error("the two error kinds must stay distinguishable")
	}
	if IsSchema(errors.New("plain")) {
		t.Error("plain errors carry no code")
	}
	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
}
