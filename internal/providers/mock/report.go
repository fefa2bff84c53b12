// ABOUTME: Mock report source for local testing and development.
// ABOUTME: Provides realistic vulnerability observations without requiring a scanner.

package mock

import (
	"context"

	"github.com/jfeddern/RiskRegister/internal/types"
	"github.com/sirupsen/logrus"
)

// MockReportSource implements ReportSource interface with mock data
type MockReportSource struct {
	logger *logrus.Logger
}

// NewMockReportSource creates a new mock report source
func NewMockReportSource(logger *logrus.Logger) *MockReportSource {
	return &MockReportSource{
		logger: logger,
	}
}

// Name returns the name of this report source
func (m *MockReportSource) Name() string {
	return "mock-report"
}

// Observations returns mock scan results aligned with the mock asset
// directory, including edge shapes the pipeline must tolerate: an
// unmanaged host, a hostless result, and a non-numeric severity.
func (m *MockReportSource) Observations(ctx context.Context) ([]types.VulnerabilityObservation, error) {
	m.logger.Info("Loading mock scan observations")

	observations := []types.VulnerabilityObservation{
		{
			Host:        "10.0.0.8",
			Name:        "xz-utils Backdoor (CVE-2024-3094)",
			CVSS:        "10.0",
			Description: "The installed xz-utils version contains a backdoor in the liblzma library.",
		},
		{
			Host:        "10.0.0.6",
			Name:        "Apache HTTP Server Multiple Vulnerabilities",
			CVSS:        "9.8",
			Description: "The installed Apache version is affected by multiple remotely exploitable flaws.",
		},
		{
			Host:        "10.0.0.5",
			Name:        "OpenSSH regreSSHion Remote Code Execution (CVE-2024-6387)",
			CVSS:        "8.1",
			Description: "A signal handler race condition allows unauthenticated remote code execution.",
		},
		{
			Host:        "10.0.0.5",
			Name:        "TLS Weak Cipher Suites Supported",
			CVSS:        "5.3",
			Description: "The service accepts cipher suites considered cryptographically weak.",
		},
		{
			Host:        "10.0.1.20",
			Name:        "OpenSSL Denial of Service (CVE-2024-0727)",
			CVSS:        "5.5",
			Description: "Processing a maliciously formatted PKCS12 file may crash the service.",
		},
		{
			Host:        "10.0.1.21",
			Name:        "curl Heap Buffer Overflow (CVE-2024-2398)",
			CVSS:        "3.4",
			Description: "HTTP/2 server push handling can overflow a heap buffer.",
		},
		{
			Host:        "10.0.2.4",
			Name:        "End-of-Life Operating System Detected",
			CVSS:        "N/A",
			Description: "The host runs an operating system release that no longer receives patches.",
		},
		{
			Host:        "10.0.2.7",
			Name:        "ICMP Timestamp Reply Information Disclosure",
			CVSS:        "0.0",
			Description: "The host answers ICMP timestamp requests.",
		},
		{
			Host:        "192.168.50.14",
			Name:        "Finding on Unmanaged Host",
			CVSS:        "7.5",
			Description: "This host is not part of the asset directory.",
		},
		{
			Host:        "",
			Name:        "Scan Coverage Summary",
			CVSS:        "",
			Description: "Informational result without a host reference.",
		},
	}

	m.logger.WithField("result_count", len(observations)).Info("Mock scan observations loaded")
	return observations, nil
}
