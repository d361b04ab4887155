// Package research drives an external agent to close documentation gaps one
// at a time, re-scanning the repository between attempts.
package research

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/bull/panopticon/internal/catalog"
)

// Gap is a unit of research work.
type Gap struct {
	ID          string
	Topic       string
	Document    string // path relative to the repository root
	Description string
	Type        string
}

// Source supplies the gaps still waiting for research, most urgent first.
type Source interface {
	Gaps(ctx context.Context) ([]Gap, error)
}

// CatalogSource reads blocking and high priority gaps from the persisted
// catalog.
type CatalogSource struct {
	store *catalog.Store
}

// NewCatalogSource creates a source backed by store.
func NewCatalogSource(store *catalog.Store) *CatalogSource {
	return &CatalogSource{store: store}
}

// Gaps returns blocking gaps followed by high priority gaps, in document
// order.
func (s *CatalogSource) Gaps(ctx context.Context) ([]Gap, error) {
	entries, err := s.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var gaps []Gap
	for _, priority := range []catalog.Priority{catalog.Blocking, catalog.High} {
		for _, entry := range entries {
			for _, g := range entry.Gaps {
				if g.Priority != priority {
					continue
				}
				gaps = append(gaps, Gap{
					ID:          g.ID,
					Topic:       g.Topic,
					Document:    entry.Document,
					Description: g.Description,
					Type:        string(g.Type),
				})
			}
		}
	}
	return gaps, nil
}

var (
	highPrioritySection = regexp.MustCompile(`(?s)## High Priority.*?(?:## Medium Priority|## Low Priority|\z)`)
	taskEntry           = regexp.MustCompile(`(?s)### (.+?) - (.+?)\n\*\*Gap ID:\*\* (.+?)\n\*\*Type:\*\* (.+?)\n\*\*Document:\*\* (.+?)\n\*\*Description:\*\* (.+?)(?:\n\n|\n\*\*|\z)`)
)

// TaskFileSource reads gaps from the "High Priority" section of a
// research-tasks.md file. Each task looks like:
//
//	### Topic - service
//	**Gap ID:** api-001
//	**Type:** incomplete_core_coverage
//	**Document:** services/api.md
//	**Description:** Deployment not documented
type TaskFileSource struct {
	path string
}

// NewTaskFileSource creates a source reading path.
func NewTaskFileSource(path string) *TaskFileSource {
	return &TaskFileSource{path: path}
}

// Gaps parses the task file. A missing file or section yields no gaps.
func (s *TaskFileSource) Gaps(ctx context.Context) ([]Gap, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return ParseTasks(string(data)), nil
}

// ParseTasks extracts the high priority tasks from research-tasks.md content.
func ParseTasks(content string) []Gap {
	section := highPrioritySection.FindString(content)
	if section == "" {
		return nil
	}

	var gaps []Gap
	for _, m := range taskEntry.FindAllStringSubmatch(section, -1) {
		gaps = append(gaps, Gap{
			Topic:       strings.TrimSpace(m[1]),
			ID:          strings.TrimSpace(m[3]),
			Type:        strings.TrimSpace(m[4]),
			Document:    strings.TrimSpace(m[5]),
			Description: strings.TrimSpace(m[6]),
		})
	}
	return gaps
}
