package gaps

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/panopticon/internal/catalog"
)

func cov(pairs ...any) catalog.Coverage {
	c := catalog.Coverage{}
	for i := 0; i+1 < len(pairs); i += 2 {
		c = append(c, catalog.TopicCoverage{
			Topic: pairs[i].(string),
			Info:  catalog.CoverageInfo{Density: pairs[i+1].(catalog.Density)},
		})
	}
	return c
}

func TestDetect_MentionedTopic(t *testing.T) {
	coverage := cov("authentication", catalog.Mentioned)

	gaps := NewDetector().Detect("billing", coverage, "Authentication here.\nAuthentication there.")

	require.Len(t, gaps, 2)
	assert.Equal(t, catalog.Gap{
		ID:          "billing-001",
		Type:        catalog.MentionedWithoutDetail,
		Topic:       "authentication",
		Priority:    catalog.Medium,
		Description: "Authentication mentioned but not detailed",
	}, gaps[0])
	assert.Equal(t, catalog.Gap{
		ID:          "billing-002",
		Type:        catalog.MissingExamples,
		Topic:       "authentication",
		Priority:    catalog.Low,
		Description: "Authentication explained but no concrete examples",
	}, gaps[1])
}

func TestDetect_ExampleAnywhereSuppressesMissingExamples(t *testing.T) {
	coverage := cov("authentication", catalog.Mentioned, "scaling", catalog.Mentioned)

	gaps := NewDetector().Detect("api", coverage, "Scaling is covered.\nFor instance, ...")

	require.Len(t, gaps, 2)
	for _, g := range gaps {
		assert.Equal(t, catalog.MentionedWithoutDetail, g.Type)
	}
}

func TestDetect_BriefHasNoMissingExamples(t *testing.T) {
	gaps := NewDetector().Detect("api", cov("scaling", catalog.Brief), "scaling")

	require.Len(t, gaps, 1)
	assert.Equal(t, catalog.MentionedWithoutDetail, gaps[0].Type)
}

func TestDetect_DetailedHasNoGaps(t *testing.T) {
	gaps := NewDetector().Detect("api", cov("deployment", catalog.Detailed), "")
	assert.Empty(t, gaps)
}

func TestDetect_NotCoveredOnlyForImportantTopics(t *testing.T) {
	coverage := cov(
		"oauth", catalog.NotCovered,
		"webhooks", catalog.NotCovered,
		"quirks", catalog.NotCovered,
		"rate_limiting", catalog.NotCovered,
	)

	gaps := NewDetector().Detect("slack", coverage, "")

	require.Len(t, gaps, 2)
	assert.Equal(t, "slack-001", gaps[0].ID)
	assert.Equal(t, "oauth", gaps[0].Topic)
	assert.Equal(t, catalog.High, gaps[0].Priority)
	assert.Equal(t, catalog.IncompleteCoreCoverage, gaps[0].Type)
	assert.Equal(t, "Oauth not documented", gaps[0].Description)
	assert.Equal(t, "slack-002", gaps[1].ID)
	assert.Equal(t, "Rate Limiting not documented", gaps[1].Description)
}

func TestDetect_IDsDenseAndIncreasing(t *testing.T) {
	coverage := cov(
		"authentication", catalog.Mentioned,
		"rate_limiting", catalog.NotCovered,
		"error_handling", catalog.Brief,
		"deployment", catalog.Detailed,
		"scaling", catalog.Mentioned,
		"monitoring", catalog.NotCovered,
	)

	gaps := NewDetector().Detect("api", coverage, "")

	require.Len(t, gaps, 6)
	for i, g := range gaps {
		assert.Equal(t, fmt.Sprintf("api-%03d", i+1), g.ID)
	}
	// coverage pass in topic order, then the example pass
	assert.Equal(t, []string{"authentication", "rate_limiting", "error_handling", "scaling", "authentication", "scaling"},
		[]string{gaps[0].Topic, gaps[1].Topic, gaps[2].Topic, gaps[3].Topic, gaps[4].Topic, gaps[5].Topic})
	assert.Equal(t, catalog.MissingExamples, gaps[4].Type)
	assert.Equal(t, catalog.MissingExamples, gaps[5].Type)
}

func TestDetect_EmptyCoverage(t *testing.T) {
	assert.Equal(t, []catalog.Gap{}, NewDetector().Detect("acme", catalog.Coverage{}, "anything"))
}

func TestDetect_ResearchTaskNeverCreated(t *testing.T) {
	for _, g := range NewDetector().Detect("api", cov("deployment", catalog.NotCovered), "") {
		assert.False(t, g.ResearchTaskCreated)
	}
}
