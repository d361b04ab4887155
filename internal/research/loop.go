package research

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bull/panopticon/internal/markdown"
	"github.com/bull/panopticon/internal/report"
)

// Rescanner rebuilds the catalog after a research attempt.
type Rescanner interface {
	Rescan(ctx context.Context) error
}

// LoopConfig configures a research loop.
type LoopConfig struct {
	Root          string        // repository root; gap documents are relative to it
	MaxIterations int           // upper bound on research attempts
	Timeout       time.Duration // per-attempt runner timeout
}

// Summary totals a loop run.
type Summary struct {
	RunID      string
	Iterations int
	Processed  int
	Succeeded  int
	Failed     int
}

// SuccessRate returns succeeded/processed as a percentage.
func (s *Summary) SuccessRate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Processed) * 100
}

// Loop researches one gap per iteration until no gaps remain or the
// iteration budget is spent.
type Loop struct {
	cfg       LoopConfig
	source    Source
	runner    Runner
	rescanner Rescanner
	outliner  *markdown.Outliner
	logger    *slog.Logger
	out       io.Writer
	palette   *report.Palette
	newID     func() string
}

// NewLoop creates a loop. rescanner may be nil, in which case the catalog is
// not rebuilt between iterations. Progress goes to out in palette colors.
func NewLoop(
	cfg LoopConfig,
	source Source,
	runner Runner,
	rescanner Rescanner,
	logger *slog.Logger,
	out io.Writer,
	palette *report.Palette,
) (*Loop, error) {
	if runner == nil {
		return nil, ErrNoRunner
	}
	if source == nil {
		return nil, ErrNoSource
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}
	if palette == nil {
		palette = report.NewPalette(false)
	}
	return &Loop{
		cfg:       cfg,
		source:    source,
		runner:    runner,
		rescanner: rescanner,
		outliner:  markdown.NewOutliner(),
		logger:    logger,
		out:       out,
		palette:   palette,
		newID:     uuid.NewString,
	}, nil
}

// Run executes the loop. Runner failures are counted and the loop moves on;
// only a failing gap source or a cancelled context stops it early.
func (l *Loop) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: l.newID()}
	logger := l.logger.With("run_id", summary.RunID)
	p := l.palette

	report.Banner(l.out, p.Cyan, "🔍 Autonomous Research Loop Starting")
	fmt.Fprintln(l.out)

	for summary.Iterations < l.cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Iterations++
		fmt.Fprintf(l.out, "\n%s\n", p.Yellow(fmt.Sprintf("📋 Iteration %d/%d", summary.Iterations, l.cfg.MaxIterations)))

		gaps, err := l.source.Gaps(ctx)
		if err != nil {
			return summary, fmt.Errorf("read gaps: %w", err)
		}
		if len(gaps) == 0 {
			fmt.Fprintln(l.out, p.Green("✓ No high-priority gaps remaining!"))
			break
		}
		fmt.Fprintf(l.out, "   Found %d high-priority gap(s)\n\n", len(gaps))

		gap := gaps[0]
		summary.Processed++
		if l.attempt(ctx, logger, summary.RunID, gap) {
			summary.Succeeded++
		} else {
			summary.Failed++
		}

		if l.rescanner != nil {
			fmt.Fprintf(l.out, "\n%s\n", p.Cyan("🔄 Re-analyzing repository..."))
			if err := l.rescanner.Rescan(ctx); err != nil {
				logger.Warn("Rescan failed", "error", err)
				fmt.Fprintf(l.out, "%s\n", p.Red(fmt.Sprintf("  ✗ Re-analysis failed: %v", err)))
			}
		}
	}

	l.printSummary(summary)
	logger.Info("Research loop complete",
		"iterations", summary.Iterations,
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return summary, nil
}

// attempt researches a single gap and reports whether it was resolved.
func (l *Loop) attempt(ctx context.Context, logger *slog.Logger, runID string, gap Gap) bool {
	p := l.palette
	rule := strings.Repeat("─", 60)

	fmt.Fprintf(l.out, "\n%s\n", p.Cyan(rule))
	fmt.Fprintln(l.out, p.Cyan(fmt.Sprintf("🎯 Researching: %s (%s - %s)", gap.ID, gap.Topic, gap.Document)))
	fmt.Fprintf(l.out, "%s\n\n", p.Cyan(rule))

	prompt := BuildPrompt(gap, l.outline(logger, gap.Document), runID)

	start := time.Now()
	result, err := l.runner.Run(ctx, prompt, l.cfg.Timeout)
	elapsed := time.Since(start)
	if result.Text != "" {
		preview := truncate(result.Text, previewChars)
		fmt.Fprintln(l.out, preview)
		logger.Info("Agent response", "gap_id", gap.ID, "chars", len(result.Text), "response", preview)
	}
	if err != nil {
		logger.Warn("Research attempt failed", "gap_id", gap.ID, "error", err, "elapsed", elapsed)
		fmt.Fprintln(l.out, p.Red(fmt.Sprintf("  ✗ Research failed: %v", err)))
		return false
	}
	if !result.Succeeded {
		logger.Warn("Agent reported failure", "gap_id", gap.ID, "elapsed", elapsed)
		fmt.Fprintln(l.out, p.Red("  ✗ Research failed: agent did not complete"))
		return false
	}
	fmt.Fprintln(l.out, p.Green(fmt.Sprintf("✓ Research complete (%.0fs)", elapsed.Seconds())))

	if result.Draft {
		if err := AppendDraft(l.cfg.Root, gap.Document, result.Text); err != nil {
			logger.Warn("Failed to apply draft", "gap_id", gap.ID, "error", err)
			fmt.Fprintln(l.out, p.Red(fmt.Sprintf("  ✗ Could not apply draft: %v", err)))
			return false
		}
		fmt.Fprintln(l.out, p.Blue(fmt.Sprintf("  → Draft appended to %s", gap.Document)))
	}

	resolved, err := Resolved(l.cfg.Root, gap)
	if err != nil {
		fmt.Fprintln(l.out, p.Red(fmt.Sprintf("  ✗ Document not found: %s", gap.Document)))
		logger.Warn("Validation failed", "gap_id", gap.ID, "error", err)
		return false
	}
	if !resolved {
		fmt.Fprintln(l.out, p.Yellow(fmt.Sprintf("  ⚠ Topic '%s' not found in document", gap.Topic)))
		fmt.Fprintln(l.out, p.Yellow("  ⚠ Gap not fully resolved (validation failed)"))
		return false
	}

	fmt.Fprintln(l.out, p.Green(fmt.Sprintf("  ✓ Topic '%s' found in document", gap.Topic)))
	fmt.Fprintln(l.out, p.Green("  ✓ Gap validated as resolved"))
	return true
}

// outline returns the document's heading outline, or nil when it cannot be
// read.
func (l *Loop) outline(logger *slog.Logger, document string) []string {
	data, err := os.ReadFile(filepath.Join(l.cfg.Root, filepath.FromSlash(document)))
	if err != nil {
		logger.Debug("No outline for prompt", "document", document, "error", err)
		return nil
	}
	sections, err := l.outliner.Outline(data)
	if err != nil {
		logger.Debug("No outline for prompt", "document", document, "error", err)
		return nil
	}
	return sections
}

func (l *Loop) printSummary(s *Summary) {
	p := l.palette
	fmt.Fprintln(l.out)
	report.Banner(l.out, p.Cyan, "✅ Autonomous Research Complete!")
	fmt.Fprintln(l.out)

	fmt.Fprintln(l.out, p.Blue("📊 Summary:"))
	fmt.Fprintf(l.out, "   - Iterations: %d\n", s.Iterations)
	fmt.Fprintf(l.out, "   - Gaps processed: %d\n", s.Processed)
	fmt.Fprintf(l.out, "   - Successfully researched: %d\n", s.Succeeded)
	fmt.Fprintf(l.out, "   - Failed (retryable): %d\n", s.Failed)

	if s.Succeeded > 0 {
		fmt.Fprintf(l.out, "\n%s\n", p.Green(fmt.Sprintf("   Success rate: %.0f%%", s.SuccessRate())))
	}
}

// previewChars is how much agent output is echoed per attempt.
const previewChars = 200

// truncate cuts s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// AppendDraft appends a drafted section to an existing document.
func AppendDraft(root, document, draft string) error {
	target := filepath.Join(root, filepath.FromSlash(document))
	existing, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("read %s: %w", document, err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", document, err)
	}
	defer f.Close()

	sep := "\n"
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		sep = "\n\n"
	}
	if _, err := f.WriteString(sep + strings.TrimSpace(draft) + "\n"); err != nil {
		return fmt.Errorf("append to %s: %w", document, err)
	}
	return nil
}

// Resolved reports whether the gap's topic now appears in its document,
// compared case-insensitively with underscores read as spaces.
func Resolved(root string, gap Gap) (bool, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(gap.Document)))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", gap.Document, err)
	}
	topic := strings.ToLower(strings.ReplaceAll(gap.Topic, "_", " "))
	return strings.Contains(strings.ToLower(string(data)), topic), nil
}
