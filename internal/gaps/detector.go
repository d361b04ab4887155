// Package gaps turns a document's coverage map into a prioritized list of
// documentation gaps.
package gaps

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bull/panopticon/internal/catalog"
)

// DefaultImportantTopics are reported even when a document never mentions them.
var DefaultImportantTopics = []string{"authentication", "deployment", "oauth", "rate_limiting"}

// DefaultExampleIndicators are phrases whose presence counts as an example.
var DefaultExampleIndicators = []string{"example", "e.g.", "for instance", "such as"}

// Detector finds gaps in catalog entries.
type Detector struct {
	important  []string
	indicators []string
	title      cases.Caser
}

// NewDetector creates a detector with the default topic and indicator lists.
func NewDetector() *Detector {
	return &Detector{
		important:  DefaultImportantTopics,
		indicators: DefaultExampleIndicators,
		title:      cases.Title(language.English),
	}
}

// Detect returns the gaps for one document. Coverage gaps come first in topic
// order, then missing-example gaps; IDs are "<stem>-NNN" numbered from 001
// across both passes.
//
// The example check looks at the whole document, not only the lines that
// mention the topic: one example phrase anywhere suppresses every
// missing-example gap of the document.
func (d *Detector) Detect(stem string, coverage catalog.Coverage, content string) []catalog.Gap {
	gaps := []catalog.Gap{}
	next := func() string {
		return fmt.Sprintf("%s-%03d", stem, len(gaps)+1)
	}

	for _, tc := range coverage {
		switch tc.Info.Density {
		case catalog.Mentioned, catalog.Brief:
			gaps = append(gaps, catalog.Gap{
				ID:          next(),
				Type:        catalog.MentionedWithoutDetail,
				Topic:       tc.Topic,
				Priority:    catalog.Medium,
				Description: d.label(tc.Topic) + " mentioned but not detailed",
			})
		case catalog.NotCovered:
			if slices.Contains(d.important, tc.Topic) {
				gaps = append(gaps, catalog.Gap{
					ID:          next(),
					Type:        catalog.IncompleteCoreCoverage,
					Topic:       tc.Topic,
					Priority:    catalog.High,
					Description: d.label(tc.Topic) + " not documented",
				})
			}
		}
	}

	if d.hasExamples(content) {
		return gaps
	}
	for _, tc := range coverage {
		if tc.Info.Density != catalog.Mentioned {
			continue
		}
		gaps = append(gaps, catalog.Gap{
			ID:          next(),
			Type:        catalog.MissingExamples,
			Topic:       tc.Topic,
			Priority:    catalog.Low,
			Description: d.label(tc.Topic) + " explained but no concrete examples",
		})
	}

	return gaps
}

func (d *Detector) hasExamples(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range d.indicators {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// label renders "rate_limiting" as "Rate Limiting".
func (d *Detector) label(topic string) string {
	return d.title.String(strings.ReplaceAll(topic, "_", " "))
}
