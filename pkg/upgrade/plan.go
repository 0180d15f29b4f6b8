/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

package upgrade

import (
	"time"

	"github.com/google/uuid"
)

// ThinProvisioning carries the capacity commitments from the target chart.
// Present on a Plan only when the target values document configures the
// capacity subtree.
type ThinProvisioning struct {
	PoolCommitment          string `json:"poolCommitment" yaml:"poolCommitment"`
	VolumeCommitment        string `json:"volumeCommitment" yaml:"volumeCommitment"`
	VolumeCommitmentInitial string `json:"volumeCommitmentInitial" yaml:"volumeCommitmentInitial"`
}

// Plan is the immutable description of one upgrade. Built by Planner,
// consumed by Executor, and serialized for the plan CLI command.
type Plan struct {
	// ID uniquely identifies this plan across logs and metrics.
	ID string `json:"id" yaml:"id"`

	// CreatedAt is the plan build time in UTC.
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`

	ChartName string `json:"chartName" yaml:"chartName"`

	FromVersion string `json:"fromVersion" yaml:"fromVersion"`
	ToVersion   string `json:"toVersion" yaml:"toVersion"`

	FromImageTag string `json:"fromImageTag" yaml:"fromImageTag"`
	ToImageTag   string `json:"toImageTag" yaml:"toImageTag"`

	// IoEngineLogLevel is applied to the io-engine DaemonSet as RUST_LOG.
	IoEngineLogLevel string `json:"ioEngineLogLevel" yaml:"ioEngineLogLevel"`

	// ThinProvisioning is nil when the target chart does not configure the
	// capacity subtree.
	ThinProvisioning *ThinProvisioning `json:"thinProvisioning,omitempty" yaml:"thinProvisioning,omitempty"`
}

func newPlan() *Plan {
	return &Plan{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// ReconfiguresThinProvisioning reports whether applying this plan touches the
// thin-provisioning commitments.
func (p *Plan) ReconfiguresThinProvisioning() bool {
	return p.ThinProvisioning != nil
}
