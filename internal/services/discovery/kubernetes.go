package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/rs/zerolog/log"
)

// KubernetesDiscovery handles backend discovery from Kubernetes labels
type KubernetesDiscovery struct {
	client *kubernetes.Clientset
}

// NewKubernetesDiscovery creates a new Kubernetes discovery instance
func NewKubernetesDiscovery() (*KubernetesDiscovery, error) {
	// Try to load kubeconfig from standard locations
	var kubeconfig string
	if home := homedir.HomeDir(); home != "" {
		kubeconfig = filepath.Join(home, ".kube", "config")
	}

	// Allow overriding kubeconfig location via environment variable
	if envKubeconfig := os.Getenv("KUBECONFIG"); envKubeconfig != "" {
		kubeconfig = envKubeconfig
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	return &KubernetesDiscovery{
		client: clientset,
	}, nil
}

// DiscoverBackends finds backends configured via Kubernetes service labels
func (k *KubernetesDiscovery) DiscoverBackends(ctx context.Context) ([]Backend, error) {
	services, err := k.client.CoreV1().Services("").List(ctx, metav1.ListOptions{
		LabelSelector: GetLabelKey(labelTypeKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	var backends []Backend

	for _, service := range services.Items {
		backend, err := parseLabels(service.Labels)
		if err != nil {
			log.Warn().Err(err).
				Str("namespace", service.Namespace).
				Str("service", service.Name).
				Msg("Failed to parse service labels")
			continue
		}
		if backend != nil {
			backends = append(backends, *backend)
		}
	}

	return backends, nil
}

// Close is a no-op for Kubernetes client
func (k *KubernetesDiscovery) Close() error {
	return nil
}
