/*
Package upgrade builds and executes Mayastor upgrade plans.

A Plan is the immutable record of a single upgrade: source and target chart
versions, image tags, the io-engine log level, and the thin-provisioning
commitments when the target chart configures them. Planner derives a Plan
from two chart documents; Executor applies a Plan to the cluster by patching
the io-engine DaemonSet and waiting for the rollout.

Thin-provisioning settings are optional in the chart. A target chart without
them produces a valid Plan with ThinProvisioning left nil, and the feature is
simply not reconfigured during the upgrade.
*/
package upgrade
