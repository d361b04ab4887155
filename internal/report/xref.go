package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bull/panopticon/internal/xref"
)

// CrossRefs writes the outcome of a validation pass.
func CrossRefs(w io.Writer, p *Palette, result *xref.Result) {
	fmt.Fprintln(w, strings.Repeat("━", 60))

	if result.OK() {
		fmt.Fprintln(w, p.Green("✅ All cross-references valid"))
		fmt.Fprintf(w, "   Checked %d markdown files, %d references\n", result.CheckedFiles, result.TotalRefs)
		return
	}

	fmt.Fprintln(w, p.Red(fmt.Sprintf("❌ Found %d broken reference(s):", len(result.Broken))))
	fmt.Fprintln(w)
	for _, b := range result.Broken {
		fmt.Fprintf(w, "%s %s\n", p.Red("❌ BROKEN"), b.File)
		if b.Kind == xref.Backtick {
			fmt.Fprintf(w, "   Reference: `%s`\n", b.Ref)
		} else {
			fmt.Fprintf(w, "   Reference: [%s](...)\n", b.Ref)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "   Checked %d markdown files, %d references\n", result.CheckedFiles, result.TotalRefs)
}
