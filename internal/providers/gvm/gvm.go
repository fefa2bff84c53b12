// ABOUTME: GVM/OpenVAS XML report source with tolerant result extraction.
// ABOUTME: Handles namespaced and namespace-free reports via per-field fallback chains.

package gvm

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/jfeddern/RiskRegister/internal/cache"
	"github.com/jfeddern/RiskRegister/internal/types"
	"github.com/sirupsen/logrus"
)

// Namespace is the schema namespace of GVM 2.0 reports.
const Namespace = "http://www.greenbone.net/schema/report/2.0"

// Substitutes for fields absent from a result unit.
const (
	unknownVulnerability = "Unknown Vulnerability"
	defaultCVSS          = "0.0"
)

// Source implements ReportSource for GVM XML report files
type Source struct {
	path   string
	cache  *cache.ReportCache
	logger *logrus.Logger
}

// NewSource creates a new GVM file-based report source. The cache is
// optional; pass nil for one-shot runs.
func NewSource(path string, reportCache *cache.ReportCache, logger *logrus.Logger) *Source {
	return &Source{
		path:   path,
		cache:  reportCache,
		logger: logger,
	}
}

// Name returns the source name
func (s *Source) Name() string {
	return "gvm-file"
}

// Observations reads and parses the report file, reusing the cached
// parse when the file fingerprint is unchanged.
func (s *Source) Observations(ctx context.Context) ([]types.VulnerabilityObservation, error) {
	logger := s.logger.WithField("operation", "extract_report")

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat report file '%s': %w", s.path, err)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(s.path, info.ModTime(), info.Size()); ok {
			return cached, nil
		}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file '%s': %w", s.path, err)
	}

	observations, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report file '%s': %w", s.path, err)
	}

	if s.cache != nil {
		s.cache.Set(s.path, info.ModTime(), info.Size(), observations)
	}

	logger.WithField("result_count", len(observations)).Info("Parsed vulnerability results from report")
	return observations, nil
}

// node is a schema-free XML element. XMLName.Space carries the resolved
// namespace URI, which lets lookups distinguish namespaced from plain tags.
type node struct {
	XMLName  xml.Name
	Content  string `xml:",chardata"`
	Children []node `xml:",any"`
}

// text returns the trimmed character data of the element.
func (n *node) text() string {
	return strings.TrimSpace(n.Content)
}

// child returns the first direct child with the given namespace and tag.
func (n *node) child(space, tag string) *node {
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == tag && c.XMLName.Space == space {
			return c
		}
	}
	return nil
}

// findDeep returns the first descendant, in document order, with the
// given namespace and tag.
func (n *node) findDeep(space, tag string) *node {
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == tag && c.XMLName.Space == space {
			return c
		}
		if found := c.findDeep(space, tag); found != nil {
			return found
		}
	}
	return nil
}

// findDeepAny is findDeep without regard for the namespace.
func (n *node) findDeepAny(tag string) *node {
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == tag {
			return c
		}
		if found := c.findDeepAny(tag); found != nil {
			return found
		}
	}
	return nil
}

// collect appends all descendants, in document order, with the given
// namespace and tag.
func (n *node) collect(space, tag string, out []*node) []*node {
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == tag && c.XMLName.Space == space {
			out = append(out, c)
		}
		out = c.collect(space, tag, out)
	}
	return out
}

// lookupKind selects how one extraction strategy searches a result unit.
type lookupKind int

const (
	directNamespaced lookupKind = iota // namespaced direct child
	directPlain                        // unqualified direct child
	deepNamespaced                     // namespaced, any depth
	deepPlain                          // unqualified, any depth
	deepAny                            // any namespace, any depth
)

// strategy is one tier of a field's fallback chain.
type strategy struct {
	kind lookupKind
	tag  string
}

// Per-field fallback chains. The first strategy yielding non-empty
// trimmed text wins; report producers vary in how they qualify and
// nest these fields, so each chain starts strict and widens.
var (
	nameChain = []strategy{
		{directNamespaced, "name"},
		{directPlain, "name"},
		{deepPlain, "name"},
	}
	hostChain = []strategy{
		{directNamespaced, "host"},
		{directPlain, "host"},
		{deepPlain, "host"},
	}
	cvssChain = []strategy{
		{deepNamespaced, "cvss_base"},
		{deepPlain, "cvss_base"},
		{deepNamespaced, "cvss"},
		{deepAny, "cvss_base"},
		{deepAny, "cvss"},
	}
	descriptionChain = []strategy{
		{directNamespaced, "description"},
		{directPlain, "description"},
	}
)

// extract runs a fallback chain over one result unit.
func extract(unit *node, chain []strategy, fallback string) string {
	for _, s := range chain {
		var found *node
		switch s.kind {
		case directNamespaced:
			found = unit.child(Namespace, s.tag)
		case directPlain:
			found = unit.child("", s.tag)
		case deepNamespaced:
			found = unit.findDeep(Namespace, s.tag)
		case deepPlain:
			found = unit.findDeep("", s.tag)
		case deepAny:
			found = unit.findDeepAny(s.tag)
		}
		if found != nil {
			if text := found.text(); text != "" {
				return text
			}
		}
	}
	return fallback
}

// Parse extracts vulnerability observations from raw report XML. Result
// units are located anywhere in the document, first under the GVM
// namespace and, only when that finds none, without qualification. A
// report without result units yields an empty, non-nil slice.
func Parse(data []byte) ([]types.VulnerabilityObservation, error) {
	var root node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse report XML: %w", err)
	}

	units := root.collect(Namespace, "result", nil)
	if len(units) == 0 {
		units = root.collect("", "result", nil)
	}

	observations := make([]types.VulnerabilityObservation, 0, len(units))
	for _, unit := range units {
		observations = append(observations, types.VulnerabilityObservation{
			Host:        extract(unit, hostChain, ""),
			Name:        extract(unit, nameChain, unknownVulnerability),
			CVSS:        extract(unit, cvssChain, defaultCVSS),
			Description: extract(unit, descriptionChain, ""),
		})
	}
	return observations, nil
}
