package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/panopticon/internal/catalog"
	"github.com/bull/panopticon/internal/corpus"
)

func doc(path, content string) *corpus.Document {
	return &corpus.Document{Path: path, Category: corpus.CategoryOf(path), Content: content}
}

func TestEntities_Scenario(t *testing.T) {
	content := `# Billing

Port: 8080

**Confidence:** HIGH

Authentication is handled upstream.
Authentication tokens expire hourly.
`
	x := NewExtractor(nil)
	e := x.Entities(doc("services/billing.md", content))

	assert.Equal(t, "billing", e.ServiceName)
	assert.Empty(t, e.ProviderName)
	assert.Equal(t, []string{"8080"}, e.Ports)
	assert.Equal(t, "HIGH", e.Confidence)
	assert.Empty(t, e.Framework)
}

func TestEntities_ProviderName(t *testing.T) {
	e := NewExtractor(nil).Entities(doc("providers/hubspot.md", "text"))
	assert.Equal(t, "hubspot", e.ProviderName)
	assert.Empty(t, e.ServiceName)
}

func TestEntities_PortsDeduplicated(t *testing.T) {
	content := "port 8080\nPORT: 8080\nListens on port:9090\nport 80 is too short"
	e := NewExtractor(nil).Entities(doc("team/x.md", content))
	assert.ElementsMatch(t, []string{"8080", "9090"}, e.Ports)
}

func TestEntities_FrameworkFirstListedWins(t *testing.T) {
	x := NewExtractor(nil)

	// "GoFiber" precedes "Temporal" in the list even though Temporal appears first in text.
	e := x.Entities(doc("services/a.md", "Temporal workers behind a GoFiber server"))
	assert.Equal(t, "GoFiber", e.Framework)

	e = x.Entities(doc("services/a.md", "uses react"))
	assert.Empty(t, e.Framework, "framework match is case-sensitive")
}

func TestEntities_ConfidencePriority(t *testing.T) {
	content := "**Confidence:** LOW\n**Confidence:** MEDIUM\n**Confidence:** HIGH"
	e := NewExtractor(nil).Entities(doc("services/a.md", content))
	assert.Equal(t, "HIGH", e.Confidence)

	e = NewExtractor(nil).Entities(doc("services/a.md", "Confidence: HIGH"))
	assert.Empty(t, e.Confidence, "confidence requires the bold label")
}

func TestDensityFor(t *testing.T) {
	assert.Equal(t, catalog.NotCovered, DensityFor(0))
	assert.Equal(t, catalog.Brief, DensityFor(1))
	assert.Equal(t, catalog.Mentioned, DensityFor(2))
	assert.Equal(t, catalog.Mentioned, DensityFor(4))
	assert.Equal(t, catalog.Detailed, DensityFor(5))
	assert.Equal(t, catalog.Detailed, DensityFor(12))
}

func TestCoverage_ServicesTopics(t *testing.T) {
	content := strings.Join([]string{
		"Rate limiting is applied per tenant.",
		"Deployment happens through ArgoCD.",
		"deployment manifests live in the ops repo",
		"DEPLOYMENT freezes on Fridays",
		"Rollback deployment is manual",
		"Blue/green deployment is planned",
	}, "\n")

	coverage := NewExtractor(nil).Coverage(doc("services/api.md", content))

	topics := make([]string, len(coverage))
	for i, tc := range coverage {
		topics[i] = tc.Topic
	}
	assert.Equal(t, []string{
		"authentication", "rate_limiting", "error_handling",
		"deployment", "scaling", "monitoring", "testing",
	}, topics)

	auth, _ := coverage.Get("authentication")
	assert.Equal(t, catalog.CoverageInfo{Density: catalog.NotCovered}, auth)

	rate, _ := coverage.Get("rate_limiting")
	assert.Equal(t, catalog.Brief, rate.Density)
	assert.Equal(t, 1, rate.LineCount)
	assert.Equal(t, "Rate limiting is applied per tenant.", rate.Details)

	deploy, _ := coverage.Get("deployment")
	assert.Equal(t, catalog.Detailed, deploy.Density)
	assert.Equal(t, 5, deploy.LineCount)
}

func TestCoverage_CountsLinesNotOccurrences(t *testing.T) {
	content := "monitoring monitoring monitoring\nmonitoring again"
	coverage := NewExtractor(nil).Coverage(doc("infrastructure/gke.md", content))

	mon, ok := coverage.Get("monitoring")
	require.True(t, ok)
	assert.Equal(t, 2, mon.LineCount)
	assert.Equal(t, catalog.Mentioned, mon.Density)
}

func TestCoverage_DetailsTruncated(t *testing.T) {
	line := "oauth " + strings.Repeat("x", 200)
	coverage := NewExtractor(nil).Coverage(doc("providers/slack.md", line))

	oauth, _ := coverage.Get("oauth")
	assert.Equal(t, 100, len([]rune(oauth.Details)))
}

func TestCoverage_OtherCategoriesEmpty(t *testing.T) {
	coverage := NewExtractor(nil).Coverage(doc("customers/acme.md", "authentication deployment"))
	assert.Empty(t, coverage)
}

func TestMentions(t *testing.T) {
	content := "The API talks to Slack and Stripe. It runs on Kubernetes (k8s) with Temporal."

	m := NewExtractor(nil).Mentions(content)

	assert.Equal(t, []string{"api", "temporal"}, m.Services)
	assert.Equal(t, []string{"slack", "stripe"}, m.Providers)
	assert.Equal(t, []string{"k8s", "kubernetes", "temporal"}, m.Infrastructure)
	assert.Equal(t, []string{}, m.Customers)
}

func TestMentions_SubstringHeuristic(t *testing.T) {
	// "rapid" contains "api"; substring matching accepts this false positive.
	m := NewExtractor(nil).Mentions("a rapid rollout")
	assert.Equal(t, []string{"api"}, m.Services)
}

func TestCrossReferences(t *testing.T) {
	content := "See [the setup guide for the whole api service and friends](../services/api.md#setup).\n" +
		"Vendor docs: [Slack](https://api.slack.com/docs.md)\n" +
		"Also `scribe.md` and `../services/api.md` and `scribe.md` again.\n" +
		"[Runbook](runbook.md)"

	refs := CrossReferences(content)

	assert.Equal(t, []catalog.Reference{
		{Target: "../services/api.md", Context: "the setup guide for the whole api service and frie"},
		{Target: "runbook.md", Context: "Runbook"},
		{Target: "scribe.md", Context: "backtick reference"},
	}, refs)
}

func TestCrossReferences_Idempotent(t *testing.T) {
	content := "[a](a.md) `b.md` [c](c.md#x) `a.md`"
	assert.Equal(t, CrossReferences(content), CrossReferences(content))
}

func TestCrossReferences_None(t *testing.T) {
	assert.Equal(t, []catalog.Reference{}, CrossReferences("no links here"))
}

func TestFacts(t *testing.T) {
	content := strings.Join([]string{
		"- short",
		"- This bullet is long enough to count as a fact",
		"  - Indented bullets are also considered as facts here",
		"* Asterisk bullets are ignored even when long enough",
		"- " + strings.Repeat("y", 160),
		"- Third fact that passes the length filter easily",
		"- Fourth fact that passes the length filter easily",
		"- Fifth fact that passes the length filter easily",
		"- Sixth fact should never be reached by the extractor",
	}, "\n")

	facts := Facts(content)

	assert.Equal(t, []string{
		"This bullet is long enough to count as a fact",
		"Indented bullets are also considered as facts here",
		"Third fact that passes the length filter easily",
		"Fourth fact that passes the length filter easily",
		"Fifth fact that passes the length filter easily",
	}, facts)
}
