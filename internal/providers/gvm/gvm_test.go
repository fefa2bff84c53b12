// ABOUTME: Tests for GVM report parsing, namespace tolerance, and fallback chains.
// ABOUTME: Covers namespaced and plain reports, nested fields, and file handling.

package gvm

import (
	"context"
	"os"
	"testing"

	"github.com/jfeddern/RiskRegister/internal/cache"
	"github.com/jfeddern/RiskRegister/internal/types"
	"github.com/sirupsen/logrus"
)

const namespacedReport = `<?xml version="1.0" encoding="UTF-8"?>
<report xmlns="http://www.greenbone.net/schema/report/2.0" id="5a2e6b1c">
  <results start="1" max="100">
    <result id="r1">
      <name>OpenSSH Weak Encryption Algorithms Supported</name>
      <host>10.0.0.5</host>
      <port>22/tcp</port>
      <nvt oid="1.3.6.1.4.1.25623.1.0.105611">
        <cvss_base>4.3</cvss_base>
      </nvt>
      <description>The remote SSH server allows weak encryption algorithms.</description>
    </result>
    <result id="r2">
      <name>Apache HTTP Server Multiple Vulnerabilities</name>
      <host>10.0.0.6</host>
      <port>443/tcp</port>
      <nvt oid="1.3.6.1.4.1.25623.1.0.112042">
        <cvss_base>9.8</cvss_base>
      </nvt>
      <description>The installed Apache version is outdated.</description>
    </result>
  </results>
</report>`

const plainReport = `<?xml version="1.0" encoding="UTF-8"?>
<report id="5a2e6b1c">
  <results start="1" max="100">
    <result id="r1">
      <name>OpenSSH Weak Encryption Algorithms Supported</name>
      <host>10.0.0.5</host>
      <port>22/tcp</port>
      <nvt oid="1.3.6.1.4.1.25623.1.0.105611">
        <cvss_base>4.3</cvss_base>
      </nvt>
      <description>The remote SSH server allows weak encryption algorithms.</description>
    </result>
    <result id="r2">
      <name>Apache HTTP Server Multiple Vulnerabilities</name>
      <host>10.0.0.6</host>
      <port>443/tcp</port>
      <nvt oid="1.3.6.1.4.1.25623.1.0.112042">
        <cvss_base>9.8</cvss_base>
      </nvt>
      <description>The installed Apache version is outdated.</description>
    </result>
  </results>
</report>`

func TestParseNamespacedReport(t *testing.T) {
	observations, err := Parse([]byte(namespacedReport))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := []types.VulnerabilityObservation{
		{
			Host:        "10.0.0.5",
			Name:        "OpenSSH Weak Encryption Algorithms Supported",
			CVSS:        "4.3",
			Description: "The remote SSH server allows weak encryption algorithms.",
		},
		{
			Host:        "10.0.0.6",
			Name:        "Apache HTTP Server Multiple Vulnerabilities",
			CVSS:        "9.8",
			Description: "The installed Apache version is outdated.",
		},
	}

	if len(observations) != len(expected) {
		t.Fatalf("Expected %d observations, got %d", len(expected), len(observations))
	}

	for i, want := range expected {
		if observations[i] != want {
			t.Errorf("Observation %d = %+v, want %+v", i, observations[i], want)
		}
	}
}

func TestParseNamespaceEquivalence(t *testing.T) {
	// The same report with and without the schema namespace must yield
	// identical observations.
	namespaced, err := Parse([]byte(namespacedReport))
	if err != nil {
		t.Fatalf("Parse namespaced report failed: %v", err)
	}

	plain, err := Parse([]byte(plainReport))
	if err != nil {
		t.Fatalf("Parse plain report failed: %v", err)
	}

	if len(namespaced) != len(plain) {
		t.Fatalf("Observation counts differ: namespaced %d, plain %d", len(namespaced), len(plain))
	}

	for i := range namespaced {
		if namespaced[i] != plain[i] {
			t.Errorf("Observation %d differs: namespaced %+v, plain %+v", i, namespaced[i], plain[i])
		}
	}
}

func TestParseFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		expected types.VulnerabilityObservation
	}{
		{
			name: "missing name substitutes placeholder",
			xml: `<report xmlns="http://www.greenbone.net/schema/report/2.0">
  <result>
    <host>10.0.0.5</host>
    <nvt><cvss_base>5.0</cvss_base></nvt>
  </result>
</report>`,
			expected: types.VulnerabilityObservation{Host: "10.0.0.5", Name: "Unknown Vulnerability", CVSS: "5.0"},
		},
		{
			name: "missing host yields empty string",
			xml: `<report xmlns="http://www.greenbone.net/schema/report/2.0">
  <result>
    <name>Orphan Finding</name>
    <nvt><cvss_base>5.0</cvss_base></nvt>
  </result>
</report>`,
			expected: types.VulnerabilityObservation{Host: "", Name: "Orphan Finding", CVSS: "5.0"},
		},
		{
			name: "missing severity substitutes zero score",
			xml: `<report xmlns="http://www.greenbone.net/schema/report/2.0">
  <result>
    <name>Unscored Finding</name>
    <host>10.0.0.5</host>
  </result>
</report>`,
			expected: types.VulnerabilityObservation{Host: "10.0.0.5", Name: "Unscored Finding", CVSS: "0.0"},
		},
		{
			name: "name recovered from nested unqualified field",
			xml: `<report xmlns="http://www.greenbone.net/schema/report/2.0">
  <result>
    <details xmlns="">
      <inner>
        <name>Nested Finding</name>
      </inner>
    </details>
    <host>10.0.0.5</host>
    <nvt><cvss_base>6.1</cvss_base></nvt>
  </result>
</report>`,
			expected: types.VulnerabilityObservation{Host: "10.0.0.5", Name: "Nested Finding", CVSS: "6.1"},
		},
		{
			name: "cvss container text used when base score absent",
			xml: `<report xmlns="http://www.greenbone.net/schema/report/2.0">
  <result>
    <name>Container Scored Finding</name>
    <host>10.0.0.7</host>
    <cvss>6.5</cvss>
  </result>
</report>`,
			expected: types.VulnerabilityObservation{Host: "10.0.0.7", Name: "Container Scored Finding", CVSS: "6.5"},
		},
		{
			name: "empty base score falls through to container",
			xml: `<report xmlns="http://www.greenbone.net/schema/report/2.0">
  <result>
    <name>Empty Base Finding</name>
    <host>10.0.0.8</host>
    <nvt><cvss_base></cvss_base></nvt>
    <cvss>7.2</cvss>
  </result>
</report>`,
			expected: types.VulnerabilityObservation{Host: "10.0.0.8", Name: "Empty Base Finding", CVSS: "7.2"},
		},
		{
			name: "values are trimmed",
			xml: `<report xmlns="http://www.greenbone.net/schema/report/2.0">
  <result>
    <name>  Spaced Finding  </name>
    <host>
      10.0.0.9
    </host>
    <nvt><cvss_base> 4.3 </cvss_base></nvt>
    <description>  Trailing space.  </description>
  </result>
</report>`,
			expected: types.VulnerabilityObservation{Host: "10.0.0.9", Name: "Spaced Finding", CVSS: "4.3", Description: "Trailing space."},
		},
		{
			name: "severity text not validated as numeric",
			xml: `<report>
  <result>
    <name>Oddly Scored Finding</name>
    <host>10.0.0.10</host>
    <nvt><cvss_base>N/A</cvss_base></nvt>
  </result>
</report>`,
			expected: types.VulnerabilityObservation{Host: "10.0.0.10", Name: "Oddly Scored Finding", CVSS: "N/A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observations, err := Parse([]byte(tt.xml))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if len(observations) != 1 {
				t.Fatalf("Expected 1 observation, got %d", len(observations))
			}

			if observations[0] != tt.expected {
				t.Errorf("Observation = %+v, want %+v", observations[0], tt.expected)
			}
		})
	}
}

func TestParseResultDiscovery(t *testing.T) {
	t.Run("no results yields empty slice", func(t *testing.T) {
		observations, err := Parse([]byte(`<report xmlns="http://www.greenbone.net/schema/report/2.0"><results/></report>`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if observations == nil {
			t.Fatal("Expected non-nil empty slice")
		}
		if len(observations) != 0 {
			t.Errorf("Expected 0 observations, got %d", len(observations))
		}
	})

	t.Run("results found at any depth", func(t *testing.T) {
		observations, err := Parse([]byte(`<report xmlns="http://www.greenbone.net/schema/report/2.0">
  <report>
    <results>
      <result><name>Deep Finding</name><host>10.0.0.5</host></result>
    </results>
  </report>
</report>`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(observations) != 1 {
			t.Fatalf("Expected 1 observation, got %d", len(observations))
		}
		if observations[0].Name != "Deep Finding" {
			t.Errorf("Expected 'Deep Finding', got %q", observations[0].Name)
		}
	})

	t.Run("namespaced results shadow unqualified ones", func(t *testing.T) {
		observations, err := Parse([]byte(`<report xmlns="http://www.greenbone.net/schema/report/2.0">
  <results>
    <result><name>Namespaced Finding</name><host>10.0.0.5</host></result>
  </results>
  <appendix xmlns="">
    <result><name>Plain Finding</name><host>10.0.0.6</host></result>
  </appendix>
</report>`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(observations) != 1 {
			t.Fatalf("Expected 1 observation, got %d", len(observations))
		}
		if observations[0].Name != "Namespaced Finding" {
			t.Errorf("Expected 'Namespaced Finding', got %q", observations[0].Name)
		}
	})

	t.Run("document order preserved", func(t *testing.T) {
		observations, err := Parse([]byte(namespacedReport))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(observations) != 2 {
			t.Fatalf("Expected 2 observations, got %d", len(observations))
		}
		if observations[0].Host != "10.0.0.5" || observations[1].Host != "10.0.0.6" {
			t.Errorf("Document order not preserved: got %s then %s", observations[0].Host, observations[1].Host)
		}
	})
}

func TestParseMalformedXML(t *testing.T) {
	inputs := []string{
		`<report><result>`,
		`not xml at all`,
		``,
	}

	for _, input := range inputs {
		if _, err := Parse([]byte(input)); err == nil {
			t.Errorf("Expected error for input %q, got none", input)
		}
	}
}

func TestSourceName(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	source := NewSource("report.xml", nil, logger)

	if source.Name() != "gvm-file" {
		t.Errorf("Expected name 'gvm-file', got '%s'", source.Name())
	}
}

func TestSourceObservations(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	file, err := os.CreateTemp("", "test-report-*.xml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString(namespacedReport); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	file.Close()

	source := NewSource(file.Name(), nil, logger)

	ctx := context.Background()
	observations, err := source.Observations(ctx)
	if err != nil {
		t.Fatalf("Observations failed: %v", err)
	}

	if len(observations) != 2 {
		t.Errorf("Expected 2 observations, got %d", len(observations))
	}
}

func TestSourceObservationsFileErrors(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	t.Run("file does not exist", func(t *testing.T) {
		source := NewSource("/nonexistent/report.xml", nil, logger)

		ctx := context.Background()
		observations, err := source.Observations(ctx)

		if err == nil {
			t.Error("Expected error but got none")
		}
		if observations != nil {
			t.Error("Expected nil observations on error")
		}
	})

	t.Run("malformed report file", func(t *testing.T) {
		file, err := os.CreateTemp("", "bad-report-*.xml")
		if err != nil {
			t.Fatalf("Failed to create temp file: %v", err)
		}
		defer os.Remove(file.Name())

		if _, err := file.WriteString("<report><result>"); err != nil {
			t.Fatalf("Failed to write to temp file: %v", err)
		}
		file.Close()

		source := NewSource(file.Name(), nil, logger)

		ctx := context.Background()
		if _, err := source.Observations(ctx); err == nil {
			t.Error("Expected error but got none")
		}
	})
}

func TestSourceObservationsUsesCache(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	file, err := os.CreateTemp("", "cached-report-*.xml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString(namespacedReport); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	file.Close()

	info, err := os.Stat(file.Name())
	if err != nil {
		t.Fatalf("Failed to stat temp file: %v", err)
	}

	// Pre-seed the cache with a sentinel entry for the current
	// fingerprint; a cache hit surfaces it instead of the file content.
	reportCache := cache.NewReportCache(logger)
	sentinel := []types.VulnerabilityObservation{{Host: "10.9.9.9", Name: "Sentinel Finding", CVSS: "1.0"}}
	reportCache.Set(file.Name(), info.ModTime(), info.Size(), sentinel)

	source := NewSource(file.Name(), reportCache, logger)

	ctx := context.Background()
	observations, err := source.Observations(ctx)
	if err != nil {
		t.Fatalf("Observations failed: %v", err)
	}

	if len(observations) != 1 || observations[0].Name != "Sentinel Finding" {
		t.Errorf("Expected cached sentinel observation, got %+v", observations)
	}
}
