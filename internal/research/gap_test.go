package research

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/panopticon/internal/catalog"
)

const tasksFile = `# Research Tasks

## High Priority

### deployment - api
**Gap ID:** api-001
**Type:** incomplete_core_coverage
**Document:** services/api.md
**Description:** Deployment not documented

### oauth - stripe
**Gap ID:** stripe-002
**Type:** incomplete_core_coverage
**Document:** providers/stripe.md
**Description:** Oauth not documented

## Medium Priority

### scaling - api
**Gap ID:** api-002
**Type:** mentioned_without_detail
**Document:** services/api.md
**Description:** Scaling mentioned but not detailed
`

func TestParseTasks(t *testing.T) {
	gaps := ParseTasks(tasksFile)
	require.Len(t, gaps, 2)

	assert.Equal(t, Gap{
		ID:          "api-001",
		Topic:       "deployment",
		Document:    "services/api.md",
		Description: "Deployment not documented",
		Type:        "incomplete_core_coverage",
	}, gaps[0])
	assert.Equal(t, "stripe-002", gaps[1].ID)
	assert.Equal(t, "Oauth not documented", gaps[1].Description)
}

func TestParseTasks_NoHighPrioritySection(t *testing.T) {
	assert.Empty(t, ParseTasks("# Research Tasks\n\n## Low Priority\n"))
}

func TestTaskFileSource_MissingFile(t *testing.T) {
	src := NewTaskFileSource(filepath.Join(t.TempDir(), "research-tasks.md"))
	gaps, err := src.Gaps(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gaps)
}

func TestTaskFileSource_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "research-tasks.md")
	require.NoError(t, os.WriteFile(path, []byte(tasksFile), 0o644))

	gaps, err := NewTaskFileSource(path).Gaps(context.Background())
	require.NoError(t, err)
	assert.Len(t, gaps, 2)
}

func TestCatalogSource_OrdersByPriority(t *testing.T) {
	store := catalog.NewStore(t.TempDir())
	require.NoError(t, store.Init())

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	api := catalog.NewEntry("services/api.md", now)
	api.Gaps = []catalog.Gap{
		{ID: "api-001", Type: catalog.MentionedWithoutDetail, Topic: "scaling", Priority: catalog.Medium},
		{ID: "api-002", Type: catalog.IncompleteCoreCoverage, Topic: "deployment", Priority: catalog.High},
	}
	stripe := catalog.NewEntry("providers/stripe.md", now)
	stripe.Gaps = []catalog.Gap{
		{ID: "stripe-001", Type: catalog.IncompleteCoreCoverage, Topic: "oauth", Priority: catalog.Blocking},
	}
	require.NoError(t, store.Save(api))
	require.NoError(t, store.Save(stripe))

	gaps, err := NewCatalogSource(store).Gaps(context.Background())
	require.NoError(t, err)
	require.Len(t, gaps, 2)
	assert.Equal(t, "stripe-001", gaps[0].ID)
	assert.Equal(t, "providers/stripe.md", gaps[0].Document)
	assert.Equal(t, "api-002", gaps[1].ID)
	assert.Equal(t, "incomplete_core_coverage", gaps[1].Type)
}
