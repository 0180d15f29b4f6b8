/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

package upgrade

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/distribution/reference"
	"golang.org/x/time/rate"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
)

const (
	// DefaultIoEngineDaemonSet is the io-engine DaemonSet name deployed by
	// the chart.
	DefaultIoEngineDaemonSet = "mayastor-io-engine"

	ioEngineContainerName = "io-engine"
	logLevelEnvName       = "RUST_LOG"

	defaultRolloutTimeout = 30 * time.Minute

	// One status poll every two seconds keeps rollout tracking responsive
	// without hammering the API server.
	rolloutPollsPerSecond = 0.5
)

// ExecutorConfig holds the cluster-side parameters for applying a plan.
type ExecutorConfig struct {
	// Namespace is the namespace of the Mayastor release.
	Namespace string

	// DaemonSetName overrides the default io-engine DaemonSet name.
	DaemonSetName string

	// RolloutTimeout bounds the wait for the DaemonSet rollout.
	RolloutTimeout time.Duration
}

// Executor applies upgrade plans to a cluster.
type Executor struct {
	clientset kubernetes.Interface
	config    ExecutorConfig
	limiter   *rate.Limiter
}

// NewExecutor returns an Executor for the given clientset and config.
func NewExecutor(clientset kubernetes.Interface, config ExecutorConfig) *Executor {
	if config.DaemonSetName == "" {
		config.DaemonSetName = DefaultIoEngineDaemonSet
	}
	if config.RolloutTimeout <= 0 {
		config.RolloutTimeout = defaultRolloutTimeout
	}
	return &Executor{
		clientset: clientset,
		config:    config,
		limiter:   rate.NewLimiter(rate.Limit(rolloutPollsPerSecond), 1),
	}
}

// Apply patches the io-engine DaemonSet to the plan's target image tag and
// log level, then waits for the rollout to finish.
func (e *Executor) Apply(ctx context.Context, plan *Plan) error {
	start := time.Now()

	if err := e.apply(ctx, plan); err != nil {
		applyTotal.WithLabelValues("error").Inc()
		return err
	}

	applyDuration.Observe(time.Since(start).Seconds())
	applyTotal.WithLabelValues("success").Inc()
	slog.Info("upgrade applied",
		"plan", plan.ID,
		"toVersion", plan.ToVersion,
		"duration", time.Since(start).Round(time.Second))
	return nil
}

func (e *Executor) apply(ctx context.Context, plan *Plan) error {
	daemonSet, err := e.clientset.AppsV1().DaemonSets(e.config.Namespace).
		Get(ctx, e.config.DaemonSetName, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("failed to get DaemonSet %s/%s: %w",
			e.config.Namespace, e.config.DaemonSetName, err)
	}

	image, err := e.retagImage(daemonSet, plan.ToImageTag)
	if err != nil {
		return err
	}

	patch, err := containerPatch(image, plan.IoEngineLogLevel)
	if err != nil {
		return fmt.Errorf("failed to build DaemonSet patch: %w", err)
	}

	slog.Info("patching io-engine DaemonSet",
		"plan", plan.ID,
		"namespace", e.config.Namespace,
		"daemonset", e.config.DaemonSetName,
		"image", image)

	_, err = e.clientset.AppsV1().DaemonSets(e.config.Namespace).
		Patch(ctx, e.config.DaemonSetName, types.StrategicMergePatchType, patch, metav1.PatchOptions{})
	if err != nil {
		return fmt.Errorf("failed to patch DaemonSet %s/%s: %w",
			e.config.Namespace, e.config.DaemonSetName, err)
	}

	return e.waitForRollout(ctx)
}

// retagImage swaps the tag on the current io-engine container image,
// keeping the registry and repository as deployed.
func (e *Executor) retagImage(daemonSet *appsv1.DaemonSet, tag string) (string, error) {
	current := ""
	for _, container := range daemonSet.Spec.Template.Spec.Containers {
		if container.Name == ioEngineContainerName {
			current = container.Image
			break
		}
	}
	if current == "" {
		return "", mserrors.New(mserrors.ErrCodeInternal,
			"DaemonSet %s/%s has no container named %q",
			e.config.Namespace, e.config.DaemonSetName, ioEngineContainerName)
	}

	named, err := reference.ParseNormalizedNamed(current)
	if err != nil {
		return "", mserrors.Wrap(err, mserrors.ErrCodeInternal,
			"deployed io-engine image %q is not a valid reference", current)
	}
	return fmt.Sprintf("%s:%s", named.Name(), tag), nil
}

// containerPatch builds a strategic-merge patch setting the io-engine
// container image and RUST_LOG value.
func containerPatch(image, logLevel string) ([]byte, error) {
	type env struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	type container struct {
		Name  string `json:"name"`
		Image string `json:"image"`
		Env   []env  `json:"env,omitempty"`
	}
	patch := map[string]any{
		"spec": map[string]any{
			"template": map[string]any{
				"spec": map[string]any{
					"containers": []container{
						{
							Name:  ioEngineContainerName,
							Image: image,
							Env:   []env{{Name: logLevelEnvName, Value: logLevel}},
						},
					},
				},
			},
		},
	}
	return json.Marshal(patch)
}

// waitForRollout polls the DaemonSet status under the executor's rate
// limiter until every node runs the updated Pod generation.
func (e *Executor) waitForRollout(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.config.RolloutTimeout)
	defer cancel()

	for {
		if err := e.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("io-engine rollout did not finish within %s: %w",
				e.config.RolloutTimeout, err)
		}

		daemonSet, err := e.clientset.AppsV1().DaemonSets(e.config.Namespace).
			Get(ctx, e.config.DaemonSetName, metav1.GetOptions{})
		if err != nil {
			slog.Warn("failed to get DaemonSet during rollout, retrying", "error", err)
			continue
		}

		if rolloutComplete(daemonSet) {
			slog.Info("io-engine rollout complete",
				"namespace", e.config.Namespace,
				"daemonset", e.config.DaemonSetName,
				"ready", daemonSet.Status.NumberReady)
			return nil
		}

		slog.Debug("io-engine rollout in progress",
			"updated", daemonSet.Status.UpdatedNumberScheduled,
			"desired", daemonSet.Status.DesiredNumberScheduled,
			"ready", daemonSet.Status.NumberReady)
	}
}

func rolloutComplete(daemonSet *appsv1.DaemonSet) bool {
	status := daemonSet.Status
	if status.ObservedGeneration < daemonSet.Generation {
		return false
	}
	return status.UpdatedNumberScheduled == status.DesiredNumberScheduled &&
		status.NumberReady == status.DesiredNumberScheduled
}
