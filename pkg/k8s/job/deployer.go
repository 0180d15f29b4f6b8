/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
)

const (
	// DefaultJobName is the Job created in the release namespace.
	DefaultJobName = "mayastor-upgrade"

	// DefaultServiceAccountName is the ServiceAccount the Job runs as.
	DefaultServiceAccountName = "mayastor-upgrade"

	clusterRoleName = "mayastor-upgrade"

	pollInterval = 5 * time.Second
)

// Config holds the deployment parameters for the upgrade Job.
type Config struct {
	// Namespace is the namespace of the Mayastor release being upgraded.
	Namespace string

	// ServiceAccountName overrides the default ServiceAccount name.
	ServiceAccountName string

	// JobName overrides the default Job name.
	JobName string

	// Image is the upgrade-job container image, including tag.
	Image string

	// PlanJSON is the serialized upgrade plan handed to the Job container
	// via --plan-json.
	PlanJSON string

	// ExtraArgs are appended verbatim to the container arguments.
	ExtraArgs []string

	// NodeSelector restricts where the Job Pod schedules.
	NodeSelector map[string]string
}

// ContainerArgs returns the argument vector the Job container runs: an
// "apply" invocation carrying the release namespace and the serialized plan.
func (c Config) ContainerArgs() []string {
	args := []string{
		"apply",
		"--namespace", c.Namespace,
		"--plan-json", c.PlanJSON,
	}
	return append(args, c.ExtraArgs...)
}

// CleanupOptions controls which resources Cleanup removes.
type CleanupOptions struct {
	// RemoveRBAC also removes the ServiceAccount, ClusterRole and
	// ClusterRoleBinding. By default RBAC is kept for the next run.
	RemoveRBAC bool
}

// Deployer creates and tracks the in-cluster upgrade Job.
type Deployer struct {
	clientset kubernetes.Interface
	config    Config
}

// NewDeployer returns a Deployer for the given clientset and config.
// Empty name fields fall back to the package defaults.
func NewDeployer(clientset kubernetes.Interface, config Config) *Deployer {
	if config.ServiceAccountName == "" {
		config.ServiceAccountName = DefaultServiceAccountName
	}
	if config.JobName == "" {
		config.JobName = DefaultJobName
	}
	return &Deployer{
		clientset: clientset,
		config:    config,
	}
}

// Deploy creates the RBAC resources and the Job. RBAC creation is idempotent;
// an existing Job from a previous run is deleted and recreated so a failed
// attempt never blocks a retry.
func (d *Deployer) Deploy(ctx context.Context) error {
	if err := d.ensureServiceAccount(ctx); err != nil {
		return fmt.Errorf("failed to create ServiceAccount: %w", err)
	}

	if err := d.ensureClusterRole(ctx); err != nil {
		return fmt.Errorf("failed to create ClusterRole: %w", err)
	}

	if err := d.ensureClusterRoleBinding(ctx); err != nil {
		return fmt.Errorf("failed to create ClusterRoleBinding: %w", err)
	}

	if err := d.ensureJob(ctx); err != nil {
		return fmt.Errorf("failed to create Job: %w", err)
	}

	slog.Info("upgrade job deployed",
		"namespace", d.config.Namespace,
		"job", d.config.JobName,
		"image", d.config.Image)
	return nil
}

// WaitForCompletion polls the Job status until it succeeds, fails, or the
// timeout expires. A failed Job surfaces as an internal error carrying the
// Job's failure condition.
func (d *Deployer) WaitForCompletion(ctx context.Context, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, pollInterval, timeout, true,
		func(ctx context.Context) (bool, error) {
			job, err := d.clientset.BatchV1().Jobs(d.config.Namespace).
				Get(ctx, d.config.JobName, metav1.GetOptions{})
			if err != nil {
				// Transient API errors should not abort the wait.
				slog.Warn("failed to get upgrade job, retrying", "error", err)
				return false, nil
			}

			if job.Status.Succeeded > 0 {
				return true, nil
			}
			for _, cond := range job.Status.Conditions {
				if cond.Type == "Failed" && cond.Status == "True" {
					return false, mserrors.New(mserrors.ErrCodeInternal,
						"upgrade job failed: %s: %s", cond.Reason, cond.Message)
				}
			}
			return false, nil
		})
	if err != nil {
		return fmt.Errorf("upgrade job did not complete: %w", err)
	}

	slog.Info("upgrade job completed", "namespace", d.config.Namespace, "job", d.config.JobName)
	return nil
}

// Cleanup removes the Job and optionally the RBAC resources.
func (d *Deployer) Cleanup(ctx context.Context, opts CleanupOptions) error {
	if err := d.deleteJob(ctx); err != nil {
		return fmt.Errorf("failed to delete Job: %w", err)
	}

	if opts.RemoveRBAC {
		if err := d.deleteClusterRoleBinding(ctx); err != nil {
			return fmt.Errorf("failed to delete ClusterRoleBinding: %w", err)
		}

		if err := d.deleteClusterRole(ctx); err != nil {
			return fmt.Errorf("failed to delete ClusterRole: %w", err)
		}

		if err := d.deleteServiceAccount(ctx); err != nil {
			return fmt.Errorf("failed to delete ServiceAccount: %w", err)
		}
	}

	return nil
}

func (d *Deployer) ensureServiceAccount(ctx context.Context) error {
	_, err := d.clientset.CoreV1().ServiceAccounts(d.config.Namespace).
		Create(ctx, d.serviceAccount(), metav1.CreateOptions{})
	return ignoreAlreadyExists(err)
}

func (d *Deployer) ensureClusterRole(ctx context.Context) error {
	_, err := d.clientset.RbacV1().ClusterRoles().
		Create(ctx, d.clusterRole(), metav1.CreateOptions{})
	return ignoreAlreadyExists(err)
}

func (d *Deployer) ensureClusterRoleBinding(ctx context.Context) error {
	_, err := d.clientset.RbacV1().ClusterRoleBindings().
		Create(ctx, d.clusterRoleBinding(), metav1.CreateOptions{})
	return ignoreAlreadyExists(err)
}

// ensureJob deletes any Job left over from a previous run before creating a
// new one. Jobs are immutable once created, so update is not an option.
func (d *Deployer) ensureJob(ctx context.Context) error {
	if err := d.deleteJob(ctx); err != nil {
		return err
	}

	_, err := d.clientset.BatchV1().Jobs(d.config.Namespace).
		Create(ctx, d.job(), metav1.CreateOptions{})
	return err
}

func (d *Deployer) deleteJob(ctx context.Context) error {
	propagation := metav1.DeletePropagationForeground
	err := d.clientset.BatchV1().Jobs(d.config.Namespace).
		Delete(ctx, d.config.JobName, metav1.DeleteOptions{
			PropagationPolicy: &propagation,
		})
	return ignoreNotFound(err)
}

func (d *Deployer) deleteServiceAccount(ctx context.Context) error {
	err := d.clientset.CoreV1().ServiceAccounts(d.config.Namespace).
		Delete(ctx, d.config.ServiceAccountName, metav1.DeleteOptions{})
	return ignoreNotFound(err)
}

func (d *Deployer) deleteClusterRole(ctx context.Context) error {
	err := d.clientset.RbacV1().ClusterRoles().
		Delete(ctx, clusterRoleName, metav1.DeleteOptions{})
	return ignoreNotFound(err)
}

func (d *Deployer) deleteClusterRoleBinding(ctx context.Context) error {
	err := d.clientset.RbacV1().ClusterRoleBindings().
		Delete(ctx, clusterRoleName, metav1.DeleteOptions{})
	return ignoreNotFound(err)
}

// ignoreAlreadyExists makes resource creation idempotent.
func ignoreAlreadyExists(err error) error {
	if errors.IsAlreadyExists(err) {
		return nil
	}
	return err
}

// ignoreNotFound makes resource deletion idempotent.
func ignoreNotFound(err error) error {
	if errors.IsNotFound(err) {
		return nil
	}
	return err
}
