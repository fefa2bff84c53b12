// ABOUTME: Kubernetes cluster asset source discovering nodes as directory assets.
// ABOUTME: Maps node addresses and labels to asset metadata using the Kubernetes API.

package cluster

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jfeddern/RiskRegister/internal/types"
	"github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Node labels mapped into asset records.
const (
	ownerLabel       = "riskregister.io/owner"
	criticalityLabel = "riskregister.io/criticality"
)

// Source implements AssetSource for Kubernetes cluster nodes
type Source struct {
	clientset kubernetes.Interface
	logger    *logrus.Logger
}

// NewSource creates a new cluster asset source
func NewSource(logger *logrus.Logger) (*Source, error) {
	var config *rest.Config
	var err error

	// Try in-cluster config first (for pod deployment)
	config, err = rest.InClusterConfig()
	if err != nil {
		// Fallback to kubeconfig (for local development)
		logger.Info("In-cluster config not available, trying kubeconfig")
		config, err = clientcmd.BuildConfigFromFlags("", clientcmd.RecommendedHomeFile)
		if err != nil {
			return nil, fmt.Errorf("failed to build kubernetes config: %w", err)
		}
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	logger.Info("Successfully connected to cluster")
	return &Source{
		clientset: clientset,
		logger:    logger,
	}, nil
}

// Name returns the source name
func (s *Source) Name() string {
	return "cluster"
}

// LoadAssets lists cluster nodes and maps them to asset records
func (s *Source) LoadAssets(ctx context.Context) (map[string]types.AssetRecord, error) {
	logger := s.logger.WithField("operation", "load_assets_cluster")

	nodes, err := s.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list cluster nodes: %w", err)
	}

	logger.WithField("node_count", len(nodes.Items)).Info("Processing cluster nodes")

	assets := make(map[string]types.AssetRecord)
	skipped := 0

	for _, node := range nodes.Items {
		record, usable, err := s.assetFromNode(node)
		if err != nil {
			return nil, err
		}
		if !usable {
			skipped++
			continue
		}
		assets[record.IPAddress] = record
	}

	logger.WithFields(logrus.Fields{
		"asset_count":   len(assets),
		"skipped_nodes": skipped,
	}).Info("Loaded asset directory from cluster")
	return assets, nil
}

// assetFromNode maps one node to an asset record. Nodes without an
// internal address are not usable as directory entries; a criticality
// label that is present but not numeric fails the load.
func (s *Source) assetFromNode(node corev1.Node) (types.AssetRecord, bool, error) {
	address := internalAddress(node)
	if address == "" {
		return types.AssetRecord{}, false, nil
	}

	crit := 1
	if raw, ok := node.Labels[criticalityLabel]; ok && raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return types.AssetRecord{}, false, fmt.Errorf("node %s has non-numeric %s label %q",
				node.Name, criticalityLabel, raw)
		}
		if parsed < 1 {
			s.logger.WithFields(logrus.Fields{
				"node":        node.Name,
				"criticality": parsed,
			}).Warn("Criticality label below 1, defaulting to 1")
			parsed = 1
		}
		crit = parsed
	}

	return types.AssetRecord{
		IPAddress:   address,
		Name:        node.Name,
		Owner:       node.Labels[ownerLabel],
		Criticality: crit,
	}, true, nil
}

// internalAddress returns the node's first internal IP address.
func internalAddress(node corev1.Node) string {
	for _, addr := range node.Status.Addresses {
		if addr.Type == corev1.NodeInternalIP {
			return addr.Address
		}
	}
	return ""
}
