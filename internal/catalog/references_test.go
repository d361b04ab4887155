package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func entryWithRefs(doc string, targets ...string) *Entry {
	e := NewEntry(doc, analyzedAt)
	for _, t := range targets {
		e.CrossReferences.Outgoing = append(e.CrossReferences.Outgoing, Reference{Target: t, Context: "link"})
	}
	return e
}

func TestLinkReferences_Asymmetric(t *testing.T) {
	api := entryWithRefs("services/api.md", "scribe.md")
	scribe := entryWithRefs("services/scribe.md")

	count := LinkReferences([]*Entry{api, scribe})

	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"api.md→scribe.md but scribe.md doesn't reference api.md"}, api.CrossReferences.Asymmetric)
	assert.Equal(t, []string{"services/api.md"}, scribe.CrossReferences.Incoming)
	assert.Empty(t, api.CrossReferences.Incoming)
}

func TestLinkReferences_Symmetric(t *testing.T) {
	api := entryWithRefs("services/api.md", "services/scribe.md")
	scribe := entryWithRefs("services/scribe.md", "api.md")

	count := LinkReferences([]*Entry{api, scribe})

	assert.Zero(t, count)
	assert.Empty(t, api.CrossReferences.Asymmetric)
	assert.Empty(t, scribe.CrossReferences.Asymmetric)
	assert.Equal(t, []string{"services/scribe.md"}, api.CrossReferences.Incoming)
	assert.Equal(t, []string{"services/api.md"}, scribe.CrossReferences.Incoming)
}

func TestLinkReferences_RelativeAcrossCategories(t *testing.T) {
	api := entryWithRefs("services/api.md", "../providers/slack.md")
	slack := entryWithRefs("providers/slack.md", "../services/api.md")

	assert.Zero(t, LinkReferences([]*Entry{api, slack}))
	assert.Equal(t, []string{"providers/slack.md"}, api.CrossReferences.Incoming)
}

func TestLinkReferences_UnknownTargetsIgnored(t *testing.T) {
	api := entryWithRefs("services/api.md", "does-not-exist.md", "api.md")

	assert.Zero(t, LinkReferences([]*Entry{api}))
	assert.Empty(t, api.CrossReferences.Incoming)
	assert.Empty(t, api.CrossReferences.Asymmetric)
}

func TestLinkReferences_Idempotent(t *testing.T) {
	api := entryWithRefs("services/api.md", "scribe.md")
	scribe := entryWithRefs("services/scribe.md")
	entries := []*Entry{api, scribe}

	LinkReferences(entries)
	LinkReferences(entries)

	assert.Len(t, api.CrossReferences.Asymmetric, 1)
	assert.Equal(t, []string{"services/api.md"}, scribe.CrossReferences.Incoming)
}
