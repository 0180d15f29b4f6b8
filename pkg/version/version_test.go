package version

import (
	"testing"

	"github.com/Masterminds/semver/v3"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
)

func TestParse(t *testing.T) {
	v, err := Parse("2.7.1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if v.String() != "2.7.1" {
		t.Errorf("Parse() = %s, want 2.7.1", v)
	}

	if _, err := Parse("not-a-version"); err == nil {
		t.Fatal("Parse() expected error for garbage input")
	} else if mserrors.CodeOf(err) != mserrors.ErrCodeInvalidRequest {
		t.Errorf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestValidateUpgradePath(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{name: "patch upgrade", from: "2.6.0", to: "2.6.1", wantErr: false},
		{name: "minor upgrade", from: "2.6.1", to: "2.7.0", wantErr: false},
		{name: "major upgrade", from: "2.7.1", to: "3.0.0", wantErr: false},
		{name: "same version", from: "2.7.1", to: "2.7.1", wantErr: true},
		{name: "rollback", from: "2.7.1", to: "2.6.0", wantErr: true},
		{name: "unsupported source", from: "1.0.5", to: "2.7.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := semver.MustParse(tt.from)
			to := semver.MustParse(tt.to)
			err := ValidateUpgradePath(from, to)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpgradePath(%s, %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
			if err != nil && mserrors.CodeOf(err) != mserrors.ErrCodeInvalidRequest {
				t.Errorf("expected INVALID_REQUEST, got %v", err)
			}
		})
	}
}

func TestIsRollbackAndSameVersion(t *testing.T) {
	older := semver.MustParse("2.6.0")
	newer := semver.MustParse("2.7.0")

	if !IsRollback(newer, older) {
		t.Error("IsRollback(newer, older) = false, want true")
	}
	if IsRollback(older, newer) {
		t.Error("IsRollback(older, newer) = true, want false")
	}
	if !IsSameVersion(older, semver.MustParse("2.6.0")) {
		t.Error("IsSameVersion should compare equal versions")
	}
}
