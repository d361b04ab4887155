package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bull/panopticon/internal/catalog"
)

// gapsPerPriority is how many gaps are listed before "... N more".
const gapsPerPriority = 5

var (
	heavyRule = strings.Repeat("═", 60)
	lightRule = strings.Repeat("─", 60)
)

// GapReport writes the repository statistics and the gaps grouped by priority.
func GapReport(w io.Writer, p *Palette, entries []*catalog.Entry, now time.Time) {
	byPriority := make(map[catalog.Priority][]docGap)
	totalGaps, totalEntities := 0, 0
	for _, e := range entries {
		totalEntities += e.Entities.Count()
		for _, g := range e.Gaps {
			byPriority[g.Priority] = append(byPriority[g.Priority], docGap{stem: e.Stem(), gap: g})
			totalGaps++
		}
	}

	fmt.Fprintf(w, "\n%s\n", heavyRule)
	fmt.Fprintln(w, p.Cyan("📊 Knowledge Gap Analysis Report"))
	fmt.Fprintf(w, "Generated: %s\n", now.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "%s\n\n", heavyRule)

	fmt.Fprintln(w, p.Blue("📈 Repository Statistics"))
	fmt.Fprintln(w, lightRule)
	fmt.Fprintf(w, "Total Documents:        %d\n", len(entries))
	fmt.Fprintf(w, "Total Entities:         %d\n", totalEntities)
	fmt.Fprintf(w, "Total Gaps Detected:    %d\n\n", totalGaps)

	for _, priority := range catalog.Priorities {
		gaps := byPriority[priority]
		if len(gaps) == 0 {
			continue
		}

		colorize := p.ForPriority(string(priority))
		fmt.Fprintln(w, colorize(fmt.Sprintf("%s Priority Gaps (%d)", strings.ToUpper(string(priority)), len(gaps))))
		fmt.Fprintln(w, lightRule)

		for _, dg := range gaps[:min(len(gaps), gapsPerPriority)] {
			fmt.Fprintf(w, "[%s] %s (%s)\n", dg.gap.ID, dg.gap.Topic, dg.stem)
			fmt.Fprintf(w, "    %s\n", dg.gap.Description)
		}
		if len(gaps) > gapsPerPriority {
			fmt.Fprintf(w, "... %d more\n", len(gaps)-gapsPerPriority)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n\n", heavyRule)
}

type docGap struct {
	stem string
	gap  catalog.Gap
}

// Banner writes a framed title line.
func Banner(w io.Writer, colorize func(a ...any) string, title string) {
	fmt.Fprintln(w, colorize(heavyRule))
	fmt.Fprintln(w, colorize(title))
	fmt.Fprintln(w, colorize(heavyRule))
}
