/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/

package job

import (
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

const (
	containerName = "upgrade-job"

	// Pod failures below this count retry in place before the Job is
	// marked failed.
	backoffLimit = int32(6)

	// Finished Jobs are garbage collected after a day.
	ttlAfterFinished = int32(24 * 60 * 60)
)

func (d *Deployer) labels() map[string]string {
	return map[string]string{
		"app":                          "mayastor-upgrade",
		"app.kubernetes.io/managed-by": "mayastor-upgrade",
	}
}

func (d *Deployer) serviceAccount() *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      d.config.ServiceAccountName,
			Namespace: d.config.Namespace,
			Labels:    d.labels(),
		},
	}
}

// clusterRole grants what the in-cluster upgrade needs: patching the
// io-engine DaemonSet and the control-plane Deployments, watching Pod
// rollout, and recording progress in a ConfigMap.
func (d *Deployer) clusterRole() *rbacv1.ClusterRole {
	return &rbacv1.ClusterRole{
		ObjectMeta: metav1.ObjectMeta{
			Name:   clusterRoleName,
			Labels: d.labels(),
		},
		Rules: []rbacv1.PolicyRule{
			{
				APIGroups: []string{"apps"},
				Resources: []string{"daemonsets", "deployments", "statefulsets"},
				Verbs:     []string{"get", "list", "watch", "patch", "update"},
			},
			{
				APIGroups: []string{""},
				Resources: []string{"pods", "nodes"},
				Verbs:     []string{"get", "list", "watch"},
			},
			{
				APIGroups: []string{""},
				Resources: []string{"configmaps"},
				Verbs:     []string{"get", "create", "update"},
			},
			{
				APIGroups: []string{""},
				Resources: []string{"events"},
				Verbs:     []string{"create"},
			},
		},
	}
}

func (d *Deployer) clusterRoleBinding() *rbacv1.ClusterRoleBinding {
	return &rbacv1.ClusterRoleBinding{
		ObjectMeta: metav1.ObjectMeta{
			Name:   clusterRoleName,
			Labels: d.labels(),
		},
		Subjects: []rbacv1.Subject{
			{
				Kind:      rbacv1.ServiceAccountKind,
				Name:      d.config.ServiceAccountName,
				Namespace: d.config.Namespace,
			},
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "ClusterRole",
			Name:     clusterRoleName,
		},
	}
}

func (d *Deployer) job() *batchv1.Job {
	return &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      d.config.JobName,
			Namespace: d.config.Namespace,
			Labels:    d.labels(),
		},
		Spec: batchv1.JobSpec{
			BackoffLimit:            ptr.To(backoffLimit),
			TTLSecondsAfterFinished: ptr.To(ttlAfterFinished),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: d.labels(),
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: d.config.ServiceAccountName,
					RestartPolicy:      corev1.RestartPolicyOnFailure,
					NodeSelector:       d.config.NodeSelector,
					Containers: []corev1.Container{
						{
							Name:            containerName,
							Image:           d.config.Image,
							ImagePullPolicy: corev1.PullIfNotPresent,
							Args:            d.config.ContainerArgs(),
							Env: []corev1.EnvVar{
								{
									Name: "POD_NAMESPACE",
									ValueFrom: &corev1.EnvVarSource{
										FieldRef: &corev1.ObjectFieldSelector{
											FieldPath: "metadata.namespace",
										},
									},
								},
							},
							SecurityContext: &corev1.SecurityContext{
								AllowPrivilegeEscalation: ptr.To(false),
								ReadOnlyRootFilesystem:   ptr.To(true),
							},
						},
					},
				},
			},
		},
	}
}
