package report

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bull/panopticon/internal/catalog"
)

func TestGapReport(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	api := catalog.NewEntry("services/api.md", now)
	api.Entities.ServiceName = "api"
	api.Entities.Confidence = "HIGH"
	for i := 1; i <= 7; i++ {
		api.Gaps = append(api.Gaps, catalog.Gap{
			ID:          fmt.Sprintf("api-%03d", i),
			Topic:       "scaling",
			Priority:    catalog.Medium,
			Description: "Scaling mentioned but not detailed",
		})
	}
	slack := catalog.NewEntry("providers/slack.md", now)
	slack.Gaps = []catalog.Gap{{ID: "slack-001", Topic: "oauth", Priority: catalog.High, Description: "Oauth not documented"}}

	var buf bytes.Buffer
	GapReport(&buf, NewPalette(false), []*catalog.Entry{api, slack}, now)
	out := buf.String()

	assert.Contains(t, out, "Total Documents:        2")
	assert.Contains(t, out, "Total Entities:         2")
	assert.Contains(t, out, "Total Gaps Detected:    8")
	assert.Contains(t, out, "HIGH Priority Gaps (1)")
	assert.Contains(t, out, "[slack-001] oauth (slack)")
	assert.Contains(t, out, "MEDIUM Priority Gaps (7)")
	assert.Contains(t, out, "[api-005] scaling (api)")
	assert.NotContains(t, out, "[api-006]")
	assert.Contains(t, out, "... 2 more")
	assert.NotContains(t, out, "LOW Priority")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("HIGH Priority")), bytes.Index(buf.Bytes(), []byte("MEDIUM Priority")))
	assert.NotContains(t, out, "\x1b[", "disabled palette must not emit ANSI codes")
}

func TestPalette_Enabled(t *testing.T) {
	p := NewPalette(true)
	assert.Contains(t, p.Red("x"), "\x1b[")
	assert.Equal(t, "x", NewPalette(false).Red("x"))
}
