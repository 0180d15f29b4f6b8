/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

package chart

import (
	"gopkg.in/yaml.v3"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
)

// umbrellaCoreKey is the key under which the umbrella chart embeds the core
// chart's values. It is the core chart's product name, not a generic "core",
// and must stay an explicit literal: the values document spells it this way
// regardless of how the field is named here.
const umbrellaCoreKey = "mayastor"

// UmbrellaValues is the values.yaml of the umbrella chart. It holds the core
// chart's values and forwards the full accessor surface to them; external
// callers use this type and never traverse the tree themselves.
type UmbrellaValues struct {
	core CoreValues
}

// DecodeUmbrellaValues decodes an umbrella chart values document. Unknown
// keys are ignored; any missing required key or wrong type fails the whole
// decode with a schema error.
func DecodeUmbrellaValues(data []byte) (*UmbrellaValues, error) {
	root, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	u := &UmbrellaValues{}
	if err := u.UnmarshalYAML(root); err != nil {
		return nil, asSchemaError(err)
	}
	return u, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (u *UmbrellaValues) UnmarshalYAML(node *yaml.Node) error {
	m, err := asMapping(node)
	if err != nil {
		return err
	}
	coreNode, err := m.required(umbrellaCoreKey)
	if err != nil {
		return err
	}
	if err := coreNode.Decode(&u.core); err != nil {
		return prefixed(umbrellaCoreKey, err)
	}
	return nil
}

// ImageTag returns the container image tag of the core chart.
func (u *UmbrellaValues) ImageTag() string {
	return u.core.ImageTag()
}

// IoEngineLogLevel returns the log level of the io-engine DaemonSet Pods.
func (u *UmbrellaValues) IoEngineLogLevel() string {
	return u.core.IoEngineLogLevel()
}

// CoreCapacityIsAbsent reports whether the core agent has no capacity
// configuration.
func (u *UmbrellaValues) CoreCapacityIsAbsent() bool {
	return u.core.CoreCapacityIsAbsent()
}

// CoreThinPoolCommitment returns the thin pool commitment of the core agent.
func (u *UmbrellaValues) CoreThinPoolCommitment() (string, error) {
	return u.core.CoreThinPoolCommitment()
}

// CoreThinVolumeCommitment returns the thin volume commitment of the core
// agent.
func (u *UmbrellaValues) CoreThinVolumeCommitment() (string, error) {
	return u.core.CoreThinVolumeCommitment()
}

// CoreThinVolumeCommitmentInitial returns the initial thin volume commitment
// of the core agent.
func (u *UmbrellaValues) CoreThinVolumeCommitmentInitial() (string, error) {
	return u.core.CoreThinVolumeCommitmentInitial()
}

// CoreValues is the values.yaml of the core chart: the container image
// settings, the io-engine configuration and the agent groups. All three
// children are required.
type CoreValues struct {
	image    Image
	ioEngine IoEngine
	agents   Agents
}

// DecodeCoreValues decodes a core chart values document. This entry point
// serves installations of the core chart without the umbrella wrapper.
func DecodeCoreValues(data []byte) (*CoreValues, error) {
	root, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	c := &CoreValues{}
	if err := c.UnmarshalYAML(root); err != nil {
		return nil, asSchemaError(err)
	}
	return c, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CoreValues) UnmarshalYAML(node *yaml.Node) error {
	m, err := asMapping(node)
	if err != nil {
		return err
	}
	imageNode, err := m.required("image")
	if err != nil {
		return err
	}
	if err := imageNode.Decode(&c.image); err != nil {
		return prefixed("image", err)
	}
	// The document key is camelCase while the concept is io-engine; the
	// mapping is part of the schema contract.
	engineNode, err := m.required("ioEngine")
	if err != nil {
		return err
	}
	if err := engineNode.Decode(&c.ioEngine); err != nil {
		return prefixed("ioEngine", err)
	}
	agentsNode, err := m.required("agents")
	if err != nil {
		return err
	}
	if err := agentsNode.Decode(&c.agents); err != nil {
		return prefixed("agents", err)
	}
	return nil
}

// ImageTag returns the container image tag used across the chart release.
func (c *CoreValues) ImageTag() string {
	return c.image.Tag()
}

// IoEngineLogLevel returns the io-engine DaemonSet Pods' log level.
func (c *CoreValues) IoEngineLogLevel() string {
	return c.ioEngine.LogLevel()
}

// CoreCapacityIsAbsent reports whether the core agent has no capacity
// configuration.
func (c *CoreValues) CoreCapacityIsAbsent() bool {
	return c.agents.CoreCapacityIsAbsent()
}

// CoreThinPoolCommitment returns the thin pool commitment of the core agent.
func (c *CoreValues) CoreThinPoolCommitment() (string, error) {
	return c.agents.CoreThinPoolCommitment()
}

// CoreThinVolumeCommitment returns the thin volume commitment of the core
// agent.
func (c *CoreValues) CoreThinVolumeCommitment() (string, error) {
	return c.agents.CoreThinVolumeCommitment()
}

// CoreThinVolumeCommitmentInitial returns the initial thin volume commitment
// of the core agent.
func (c *CoreValues) CoreThinVolumeCommitmentInitial() (string, error) {
	return c.agents.CoreThinVolumeCommitmentInitial()
}

// Image holds the "image" object of the core chart values, which carries the
// details required for pulling container images.
type Image struct {
	tag string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Image) UnmarshalYAML(node *yaml.Node) error {
	m, err := asMapping(node)
	if err != nil {
		return err
	}
	tag, err := m.requiredString("tag")
	if err != nil {
		return err
	}
	i.tag = tag
	return nil
}

// Tag returns the container image tag.
func (i *Image) Tag() string {
	return i.tag
}

// IoEngine holds the "ioEngine" object of the core chart values, the
// configuration of the io-engine DaemonSet.
type IoEngine struct {
	logLevel string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *IoEngine) UnmarshalYAML(node *yaml.Node) error {
	m, err := asMapping(node)
	if err != nil {
		return err
	}
	logLevel, err := m.requiredString("logLevel")
	if err != nil {
		return err
	}
	e.logLevel = logLevel
	return nil
}

// LogLevel returns the tracing log level of the io-engine DaemonSet Pods.
func (e *IoEngine) LogLevel() string {
	return e.logLevel
}

// Agents holds the "agents" object of the core chart values. The agent group
// named "core" is unrelated to the core chart despite sharing its name; the
// two stay distinct types.
type Agents struct {
	core CoreAgent
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Agents) UnmarshalYAML(node *yaml.Node) error {
	m, err := asMapping(node)
	if err != nil {
		return err
	}
	coreNode, err := m.required("core")
	if err != nil {
		return err
	}
	if err := coreNode.Decode(&a.core); err != nil {
		return prefixed("core", err)
	}
	return nil
}

// CoreCapacityIsAbsent reports whether the core agent has no capacity
// configuration.
func (a *Agents) CoreCapacityIsAbsent() bool {
	return a.core.CapacityIsAbsent()
}

// CoreThinPoolCommitment returns the thin pool commitment of the core agent.
func (a *Agents) CoreThinPoolCommitment() (string, error) {
	return a.core.ThinPoolCommitment()
}

// CoreThinVolumeCommitment returns the thin volume commitment of the core
// agent.
func (a *Agents) CoreThinVolumeCommitment() (string, error) {
	return a.core.ThinVolumeCommitment()
}

// CoreThinVolumeCommitmentInitial returns the initial thin volume commitment
// of the core agent.
func (a *Agents) CoreThinVolumeCommitmentInitial() (string, error) {
	return a.core.ThinVolumeCommitmentInitial()
}

// CoreAgent is the "core" agent group. Its capacity subtree is the one
// legitimately optional piece of the whole schema: absence means thin
// provisioning is not engaged for this deployment.
type CoreAgent struct {
	capacity *Capacity
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *CoreAgent) UnmarshalYAML(node *yaml.Node) error {
	m, err := asMapping(node)
	if err != nil {
		return err
	}
	capacityNode := m.lookup("capacity")
	if capacityNode == nil {
		a.capacity = nil
		return nil
	}
	capacity := &Capacity{}
	if err := capacityNode.Decode(capacity); err != nil {
		return prefixed("capacity", err)
	}
	a.capacity = capacity
	return nil
}

// CapacityIsAbsent reports whether no capacity subtree was present in the
// source document.
func (a *CoreAgent) CapacityIsAbsent() bool {
	return a.capacity == nil
}

// capacityOrAbsent is the single absence check shared by the three
// thin-provisioning accessors, so the distinguished error is raised
// consistently regardless of which threshold is requested first.
func (a *CoreAgent) capacityOrAbsent() (*Capacity, error) {
	if a.capacity == nil {
		return nil, mserrors.New(mserrors.ErrCodeThinProvisioningOptionsAbsent,
			"agents.core.capacity is not set in the values document")
	}
	return a.capacity, nil
}

// ThinPoolCommitment returns the thin pool commitment, or the distinguished
// absent error when no capacity is configured.
func (a *CoreAgent) ThinPoolCommitment() (string, error) {
	capacity, err := a.capacityOrAbsent()
	if err != nil {
		return "", err
	}
	return capacity.ThinPoolCommitment(), nil
}

// ThinVolumeCommitment returns the thin volume commitment, or the
// distinguished absent error when no capacity is configured.
func (a *CoreAgent) ThinVolumeCommitment() (string, error) {
	capacity, err := a.capacityOrAbsent()
	if err != nil {
		return "", err
	}
	return capacity.ThinVolumeCommitment(), nil
}

// ThinVolumeCommitmentInitial returns the initial thin volume commitment, or
// the distinguished absent error when no capacity is configured.
func (a *CoreAgent) ThinVolumeCommitmentInitial() (string, error) {
	capacity, err := a.capacityOrAbsent()
	if err != nil {
		return "", err
	}
	return capacity.ThinVolumeCommitmentInitial(), nil
}

// Capacity holds the "capacity" object of the core agent group. Once the
// subtree is present, its thin object is required.
type Capacity struct {
	thin Thin
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Capacity) UnmarshalYAML(node *yaml.Node) error {
	m, err := asMapping(node)
	if err != nil {
		return err
	}
	thinNode, err := m.required("thin")
	if err != nil {
		return err
	}
	if err := thinNode.Decode(&c.thin); err != nil {
		return prefixed("thin", err)
	}
	return nil
}

// ThinPoolCommitment returns the thin pool commitment threshold.
func (c *Capacity) ThinPoolCommitment() string {
	return c.thin.PoolCommitment()
}

// ThinVolumeCommitment returns the thin volume commitment threshold.
func (c *Capacity) ThinVolumeCommitment() string {
	return c.thin.VolumeCommitment()
}

// ThinVolumeCommitmentInitial returns the initial thin volume commitment
// threshold.
func (c *Capacity) ThinVolumeCommitmentInitial() string {
	return c.thin.VolumeCommitmentInitial()
}

// Thin holds the three thin-provisioning commitment thresholds. The values
// are opaque strings; this layer never trims, re-cases or parses them.
type Thin struct {
	poolCommitment          string
	volumeCommitment        string
	volumeCommitmentInitial string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Thin) UnmarshalYAML(node *yaml.Node) error {
	m, err := asMapping(node)
	if err != nil {
		return err
	}
	poolCommitment, err := m.requiredString("poolCommitment")
	if err != nil {
		return err
	}
	volumeCommitment, err := m.requiredString("volumeCommitment")
	if err != nil {
		return err
	}
	volumeCommitmentInitial, err := m.requiredString("volumeCommitmentInitial")
	if err != nil {
		return err
	}
	t.poolCommitment = poolCommitment
	t.volumeCommitment = volumeCommitment
	t.volumeCommitmentInitial = volumeCommitmentInitial
	return nil
}

// PoolCommitment returns the pool commitment threshold.
func (t *Thin) PoolCommitment() string {
	return t.poolCommitment
}

// VolumeCommitment returns the volume commitment threshold.
func (t *Thin) VolumeCommitment() string {
	return t.volumeCommitment
}

// VolumeCommitmentInitial returns the initial volume commitment threshold.
func (t *Thin) VolumeCommitmentInitial() string {
	return t.volumeCommitmentInitial
}
