// Package chart is a typed, read-only view over the helm chart documents the
// upgrade job consumes: a chart's Chart.yaml manifest and the umbrella
// chart's values.yaml.
//
// The umbrella chart declares the core chart as a dependency and embeds the
// core chart's values under a key named after the core chart's product name.
// This package maps that loosely-typed document onto a strict schema and
// exposes the deployment-relevant settings through forwarding accessors:
//
//	values, err := chart.DecodeUmbrellaValues(data)
//	if err != nil {
//	    // SCHEMA_MISMATCH: the whole decode failed, no value exists
//	}
//	tag := values.ImageTag()
//	level := values.IoEngineLogLevel()
//
// The one legitimately optional subtree is agents.core.capacity. Its absence
// survives decode and is surfaced only when one of the thin-provisioning
// accessors is called, as a THIN_PROVISIONING_OPTIONS_ABSENT error that is
// distinguishable from any schema failure:
//
//	commitment, err := values.CoreThinPoolCommitment()
//	if errors.IsThinProvisioningOptionsAbsent(err) {
//	    // thin provisioning is not configured for this deployment
//	}
//
// Decoding is all-or-nothing: any missing required key, wrong type, or
// unparsable version aborts the decode and no partial value escapes. Decoded
// values are immutable and safe for concurrent readers. This package performs
// no I/O beyond the explicit FromDirectory loader.
package chart
