// Package client builds the Kubernetes clientset the upgrade job uses.
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

var (
	clientOnce   sync.Once
	cachedClient *kubernetes.Clientset
	cachedConfig *rest.Config
	clientErr    error
)

// Get returns a process-wide singleton clientset, creating it on first call
// with automatic kubeconfig discovery (KUBECONFIG, ~/.kube/config, then the
// in-cluster service account when running as a Pod). The upgrade job talks to
// a single cluster, so connection reuse is always correct here; use Build for
// an explicit kubeconfig path.
func Get() (*kubernetes.Clientset, *rest.Config, error) {
	clientOnce.Do(func() {
		cachedClient, cachedConfig, clientErr = Build("")
	})
	return cachedClient, cachedConfig, clientErr
}

// Build creates a clientset from the given kubeconfig path, bypassing the
// singleton. An empty path triggers the same discovery order as Get.
func Build(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	if kubeconfig == "" {
		kubeconfig = os.Getenv("KUBECONFIG")
		if kubeconfig == "" {
			candidate := filepath.Join(homedir.HomeDir(), ".kube", "config")
			if _, err := os.Stat(candidate); err == nil {
				kubeconfig = candidate
			}
		}
	}

	// With an empty path this falls through to in-cluster config.
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build kube config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return clientset, config, nil
}
