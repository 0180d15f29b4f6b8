/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

package chart

import (
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Chart holds the name and version a chart declares in its Chart.yaml.
// It is decoded independently from the values documents; version ordering is
// the caller's concern (see pkg/version).
type Chart struct {
	name    string
	version *semver.Version
}

// DecodeChart decodes a Chart.yaml manifest. The decode fails with a schema
// error if name is missing or empty, or if version is not a valid semantic
// version string.
func DecodeChart(data []byte) (*Chart, error) {
	root, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	c := &Chart{}
	if err := c.UnmarshalYAML(root); err != nil {
		return nil, asSchemaError(err)
	}
	return c, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Chart) UnmarshalYAML(node *yaml.Node) error {
	m, err := asMapping(node)
	if err != nil {
		return err
	}
	name, err := m.requiredString("name")
	if err != nil {
		return err
	}
	if name == "" {
		return fieldErrorf("name", "must not be empty")
	}
	raw, err := m.requiredString("version")
	if err != nil {
		return err
	}
	version, err := semver.NewVersion(raw)
	if err != nil {
		return fieldErrorf("version", "%q is not a valid semantic version", raw)
	}
	c.name = name
	c.version = version
	return nil
}

// Name returns the declared chart name.
func (c *Chart) Name() string {
	return c.name
}

// Version returns the parsed chart version.
func (c *Chart) Version() *semver.Version {
	return c.version
}
