// Package main provides the analyze CLI that builds the Panopticon knowledge
// catalog.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/panopticon/internal/analyzer"
	"github.com/bull/panopticon/internal/catalog"
	"github.com/bull/panopticon/internal/config"
	"github.com/bull/panopticon/internal/corpus"
	"github.com/bull/panopticon/internal/extract"
	"github.com/bull/panopticon/internal/gaps"
	"github.com/bull/panopticon/internal/markdown"
	"github.com/bull/panopticon/internal/report"
)

// errNotImplemented marks a declared mode that has no implementation yet.
// Its message is printed before it is returned.
var errNotImplemented = errors.New("mode not implemented")

func newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [document]",
		Short: "Build the knowledge catalog and detect documentation gaps",
		Long: `Scans every content document (services/, providers/, infrastructure/,
customers/) and writes one catalog entry per document plus metadata.yaml.

For each document it extracts entities, topic coverage, mentions, key facts,
cross-references and its heading outline, then detects gaps. After all
documents are analyzed it links cross-references across the corpus and
prints a gap report.

Environment variables:
  PANOPTICON_ROOT         Repository root (default: .)
  PANOPTICON_CATALOG_DIR  Catalog directory (default: <root>/.claude/catalog)
  PANOPTICON_NO_COLOR     Disable colored output
  PANOPTICON_LOG_LEVEL    Diagnostic log level (default: warn)`,
		// Only the first argument selects a mode; anything unrecognized,
		// dashed or not, is an incremental analysis request.
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runFullScan(out)
			}
			switch args[0] {
			case "--help", "-h":
				return cmd.Help()
			case "--report":
				fmt.Fprintln(out, "Gap report mode not yet implemented")
			case "--gaps-only":
				fmt.Fprintln(out, "Gaps-only mode not yet implemented")
			default:
				fmt.Fprintln(out, "Incremental analysis mode not yet implemented")
			}
			return errNotImplemented
		},
	}
	cmd.SetOut(out)

	// Declared for usage output; RunE dispatches on the raw arguments.
	cmd.Flags().Bool("report", false, "Generate gap summary (not implemented)")
	cmd.Flags().Bool("gaps-only", false, "Run gap detection only (not implemented)")

	return cmd
}

func main() {
	// Load .env file if present (local development), ignore if missing
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errNotImplemented) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func runFullScan(out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()
	palette := report.NewTerminalPalette(cfg.NoColor)

	pipeline := analyzer.NewPipeline(
		corpus.NewLoader(cfg.Root),
		extract.NewExtractor(nil),
		gaps.NewDetector(),
		markdown.NewOutliner(),
		catalog.NewStore(cfg.CatalogDir),
		logger,
		out,
		palette,
	)

	report.Banner(out, palette.Cyan, "🔍 Knowledge Analyzer - Full Repository Scan")
	fmt.Fprintln(out)

	result, err := pipeline.RunFullScan()
	if err != nil {
		return fmt.Errorf("full scan failed: %w", err)
	}

	if len(result.Failed) > 0 {
		fmt.Fprintln(out, palette.Red("Failed documents:"))
		for _, failed := range result.Failed {
			fmt.Fprintf(out, "  - %s: %s\n", failed.Path, failed.Reason)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out)
	report.Banner(out, palette.Green, "✅ Full scan complete!")
	fmt.Fprintf(out, "\nTotal time: %s\n", result.Duration.Round(time.Millisecond))
	return nil
}
