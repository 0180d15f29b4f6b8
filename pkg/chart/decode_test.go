package chart

import (
	"errors"
	"testing"
)

func TestNearestKey(t *testing.T) {
	tests := []struct {
		name       string
		want       string
		candidates []string
		expect     string
	}{
		{
			name:       "casing near miss",
			want:       "logLevel",
			candidates: []string{"log_level", "cpuCount"},
			expect:     "log_level",
		},
		{
			name:       "nothing close enough",
			want:       "ioEngine",
			candidates: []string{"image", "agents", "etcd"},
			expect:     "",
		},
		{
			name:       "exact match is not a suggestion",
			want:       "tag",
			candidates: []string{"tag"},
			expect:     "",
		},
		{
			name:       "closest of several wins",
			want:       "thin",
			candidates: []string{"thn", "think", "thick"},
			expect:     "thn",
		},
		{
			name:       "no candidates",
			want:       "capacity",
			candidates: nil,
			expect:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nearestKey(tt.want, tt.candidates); got != tt.expect {
				t.Errorf("nearestKey(%q, %v) = %q, want %q", tt.want, tt.candidates, got, tt.expect)
			}
		})
	}
}

func TestPrefixed_AccumulatesPath(t *testing.T) {
	err := fieldErrorf("tag", "missing required key")
	err2 := prefixed("image", err)
	err3 := prefixed("mayastor", err2)

	var fe *fieldError
	if !errors.As(err3, &fe) {
		t.Fatalf("expected fieldError, got %T", err3)
	}
	if fe.path != "mayastor.image.tag" {
		t.Errorf("path = %q, want %q", fe.path, "mayastor.image.tag")
	}
	if fe.msg != "missing required key" {
		t.Errorf("msg = %q, want unchanged", fe.msg)
	}
}

func TestPrefixed_ForeignErrorIsFolded(t *testing.T) {
	err := prefixed("image", errors.New("yaml: some type error"))

	var fe *fieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected fieldError, got %T", err)
	}
	if fe.path != "image" {
		t.Errorf("path = %q, want %q", fe.path, "image")
	}
}
