/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package version implements the upgrade-path rules applied to chart
// versions before any cluster mutation happens.
package version

import (
	"github.com/Masterminds/semver/v3"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
)

// minimumSupportedSource is the oldest source chart version an upgrade may
// start from. Releases before it used an incompatible values layout.
const minimumSupportedSource = ">= 2.0.0"

// Parse parses a version string supplied by a caller (flag, manifest field).
func Parse(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, mserrors.New(mserrors.ErrCodeInvalidRequest, "%q is not a valid semantic version", s)
	}
	return v, nil
}

// IsRollback reports whether moving from from to to would downgrade the
// deployment.
func IsRollback(from, to *semver.Version) bool {
	return to.LessThan(from)
}

// IsSameVersion reports whether from and to are the same release.
func IsSameVersion(from, to *semver.Version) bool {
	return to.Equal(from)
}

// ValidateUpgradePath checks that an upgrade from from to to is allowed:
// the source release must be supported, and the path must move forward.
// Rollbacks and same-version "upgrades" are rejected before any cluster
// mutation happens.
func ValidateUpgradePath(from, to *semver.Version) error {
	supported, err := semver.NewConstraint(minimumSupportedSource)
	if err != nil {
		return mserrors.Wrap(err, mserrors.ErrCodeInternal, "bad minimum version constraint")
	}
	if !supported.Check(from) {
		return mserrors.New(mserrors.ErrCodeInvalidRequest,
			"source version %s is not supported, upgrades require %s", from, minimumSupportedSource)
	}
	if IsSameVersion(from, to) {
		return mserrors.New(mserrors.ErrCodeInvalidRequest,
			"deployment is already at version %s", to)
	}
	if IsRollback(from, to) {
		return mserrors.New(mserrors.ErrCodeInvalidRequest,
			"rollback from %s to %s is not supported", from, to)
	}
	return nil
}
