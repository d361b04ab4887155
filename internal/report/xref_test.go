package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bull/panopticon/internal/xref"
)

func TestCrossRefs_Valid(t *testing.T) {
	var buf bytes.Buffer
	CrossRefs(&buf, NewPalette(false), &xref.Result{CheckedFiles: 3, TotalRefs: 9})

	assert.Contains(t, buf.String(), "All cross-references valid")
	assert.Contains(t, buf.String(), "Checked 3 markdown files, 9 references")
}

func TestCrossRefs_Broken(t *testing.T) {
	var buf bytes.Buffer
	CrossRefs(&buf, NewPalette(false), &xref.Result{
		CheckedFiles: 2,
		TotalRefs:    4,
		Broken: []xref.Broken{
			{File: "services/foo.md", Ref: "../services/api.md", Kind: xref.Link},
			{File: "services/foo.md", Ref: "scribe.md", Kind: xref.Backtick},
		},
	})
	out := buf.String()

	assert.Contains(t, out, "Found 2 broken reference(s)")
	assert.Contains(t, out, "❌ BROKEN services/foo.md")
	assert.Contains(t, out, "Reference: [../services/api.md](...)")
	assert.Contains(t, out, "Reference: `scribe.md`")
}
