// Package catalog defines the per-document catalog records and persists them
// as YAML files mirroring the content tree.
package catalog

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// AnalyzerName identifies the producer of catalog entries.
const AnalyzerName = "knowledge-analyzer"

// Density is a qualitative bucket for how thoroughly a topic is covered.
type Density string

const (
	NotCovered Density = "not_covered" // no matching line
	Brief      Density = "brief"       // exactly one matching line
	Mentioned  Density = "mentioned"   // 2-4 matching lines
	Detailed   Density = "detailed"    // 5 or more matching lines
)

// CoverageInfo is the coverage judgment for one topic.
type CoverageInfo struct {
	Density   Density `yaml:"density" json:"density"`
	Details   string  `yaml:"details,omitempty" json:"details,omitempty"` // First matching line, at most 100 characters
	LineCount int     `yaml:"line_count" json:"line_count"`
}

// TopicCoverage pairs a topic with its coverage.
type TopicCoverage struct {
	Topic string       `json:"topic"`
	Info  CoverageInfo `json:"coverage"`
}

// Coverage is an ordered topic -> coverage map. Order follows the category's
// topic list and is preserved through YAML so gap detection stays
// reproducible after a reload.
type Coverage []TopicCoverage

// Get returns the coverage of topic.
func (c Coverage) Get(topic string) (CoverageInfo, bool) {
	for _, tc := range c {
		if tc.Topic == topic {
			return tc.Info, true
		}
	}
	return CoverageInfo{}, false
}

// MarshalYAML encodes the coverage as a mapping in topic order.
func (c Coverage) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, tc := range c {
		var value yaml.Node
		if err := value.Encode(tc.Info); err != nil {
			return nil, fmt.Errorf("encode coverage %s: %w", tc.Topic, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tc.Topic}
		node.Content = append(node.Content, key, &value)
	}
	return node, nil
}

// UnmarshalYAML decodes a mapping while keeping document order.
func (c *Coverage) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("coverage: expected mapping, got kind %d", value.Kind)
	}
	out := make(Coverage, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var info CoverageInfo
		if err := value.Content[i+1].Decode(&info); err != nil {
			return fmt.Errorf("decode coverage %s: %w", value.Content[i].Value, err)
		}
		out = append(out, TopicCoverage{Topic: value.Content[i].Value, Info: info})
	}
	*c = out
	return nil
}

// Entities are the structured facts pulled out of a document.
type Entities struct {
	ServiceName  string   `yaml:"service_name,omitempty" json:"service_name,omitempty"`
	ProviderName string   `yaml:"provider_name,omitempty" json:"provider_name,omitempty"`
	Ports        []string `yaml:"ports,omitempty" json:"ports,omitempty"`
	Framework    string   `yaml:"framework,omitempty" json:"framework,omitempty"`
	Confidence   string   `yaml:"confidence,omitempty" json:"confidence,omitempty"`
}

// Count returns how many entity attributes are populated.
func (e Entities) Count() int {
	n := 0
	for _, s := range []string{e.ServiceName, e.ProviderName, e.Framework, e.Confidence} {
		if s != "" {
			n++
		}
	}
	if len(e.Ports) > 0 {
		n++
	}
	return n
}

// Mentions lists known terms a document refers to, each sorted and unique.
type Mentions struct {
	Services       []string `yaml:"services" json:"services"`
	Providers      []string `yaml:"providers" json:"providers"`
	Infrastructure []string `yaml:"infrastructure" json:"infrastructure"`
	Customers      []string `yaml:"customers" json:"customers"`
}

// Reference is one outgoing reference to another document.
type Reference struct {
	Target  string `yaml:"target" json:"target"`
	Context string `yaml:"context" json:"context"`
}

// CrossReferences holds a document's links. Incoming and Asymmetric are only
// filled by the whole-corpus pass.
type CrossReferences struct {
	Outgoing   []Reference `yaml:"outgoing" json:"outgoing"`
	Incoming   []string    `yaml:"incoming" json:"incoming"`
	Asymmetric []string    `yaml:"asymmetric" json:"asymmetric"`
}

// GapType classifies a detected gap.
type GapType string

const (
	MentionedWithoutDetail GapType = "mentioned_without_detail"
	IncompleteCoreCoverage GapType = "incomplete_core_coverage"
	MissingExamples        GapType = "missing_examples"
)

// Priority orders gaps for follow-up work.
type Priority string

const (
	Blocking Priority = "blocking"
	High     Priority = "high"
	Medium   Priority = "medium"
	Low      Priority = "low"
)

// Priorities lists priorities from most to least urgent.
var Priorities = []Priority{Blocking, High, Medium, Low}

// Gap is a detected shortfall in a document's coverage.
type Gap struct {
	ID                  string   `yaml:"gap_id" json:"gap_id"` // "<doc-stem>-NNN", unique within one document
	Type                GapType  `yaml:"gap_type" json:"gap_type"`
	Topic               string   `yaml:"topic" json:"topic"`
	Priority            Priority `yaml:"priority" json:"priority"`
	Description         string   `yaml:"description" json:"description"`
	ResearchTaskCreated bool     `yaml:"research_task_created" json:"research_task_created"`
}

// Entry is the catalog record of one document. It is rebuilt from scratch on
// every analysis and overwrites any previous record.
type Entry struct {
	Document        string          `yaml:"document" json:"document"`
	LastAnalyzed    time.Time       `yaml:"last_analyzed" json:"last_analyzed"`
	AnalyzedBy      string          `yaml:"analyzed_by" json:"analyzed_by"`
	Entities        Entities        `yaml:"entities" json:"entities"`
	Coverage        Coverage        `yaml:"coverage" json:"coverage"`
	Mentions        Mentions        `yaml:"mentions" json:"mentions"`
	CrossReferences CrossReferences `yaml:"cross_references" json:"cross_references"`
	Gaps            []Gap           `yaml:"gaps" json:"gaps"`
	Facts           []string        `yaml:"facts" json:"facts"`
	Sections        []string        `yaml:"sections" json:"sections"`
}

// NewEntry creates an empty entry for document analyzed at now.
func NewEntry(document string, now time.Time) *Entry {
	return &Entry{
		Document:     document,
		LastAnalyzed: now.UTC(),
		AnalyzedBy:   AnalyzerName,
		Coverage:     Coverage{},
		Mentions: Mentions{
			Services:       []string{},
			Providers:      []string{},
			Infrastructure: []string{},
			Customers:      []string{},
		},
		CrossReferences: CrossReferences{
			Outgoing:   []Reference{},
			Incoming:   []string{},
			Asymmetric: []string{},
		},
		Gaps:     []Gap{},
		Facts:    []string{},
		Sections: []string{},
	}
}

// CategoryCounts counts analyzed documents per content directory.
type CategoryCounts struct {
	Services       int `yaml:"services" json:"services"`
	Providers      int `yaml:"providers" json:"providers"`
	Infrastructure int `yaml:"infrastructure" json:"infrastructure"`
	Customers      int `yaml:"customers" json:"customers"`
}

// Map returns the counts keyed by category name.
func (c CategoryCounts) Map() map[string]int {
	return map[string]int{
		"services":       c.Services,
		"providers":      c.Providers,
		"infrastructure": c.Infrastructure,
		"customers":      c.Customers,
	}
}

// Metadata summarizes a full scan.
type Metadata struct {
	LastFullScan      time.Time      `yaml:"last_full_scan" json:"last_full_scan"`
	TotalDocuments    int            `yaml:"total_documents" json:"total_documents"`
	TotalGaps         int            `yaml:"total_gaps" json:"total_gaps"`
	TotalEntities     int            `yaml:"total_entities" json:"total_entities"`
	DocumentsAnalyzed CategoryCounts `yaml:"documents_analyzed" json:"documents_analyzed"`
}
