// Package analyzer builds the catalog: it loads every content document,
// extracts entities, coverage, mentions and references, detects gaps, and
// persists one record per document plus a repository summary.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bull/panopticon/internal/catalog"
	"github.com/bull/panopticon/internal/corpus"
	"github.com/bull/panopticon/internal/extract"
	"github.com/bull/panopticon/internal/gaps"
	"github.com/bull/panopticon/internal/markdown"
	"github.com/bull/panopticon/internal/report"
)

// ScanResult contains statistics about a full scan.
type ScanResult struct {
	Entries    []*catalog.Entry
	Metadata   *catalog.Metadata
	Asymmetric int
	Failed     []FailedDoc
	Duration   time.Duration
}

// FailedDoc represents a document that could not be analyzed or saved.
type FailedDoc struct {
	Path   string
	Reason string
}

// Pipeline runs documents through extraction and gap detection into the
// catalog store. Documents are processed one at a time.
type Pipeline struct {
	loader    *corpus.Loader
	extractor *extract.Extractor
	detector  *gaps.Detector
	outliner  *markdown.Outliner
	store     *catalog.Store
	logger    *slog.Logger

	out     io.Writer
	palette *report.Palette
	now     func() time.Time
	save    func(*catalog.Entry) error
}

// NewPipeline creates a pipeline. Progress lines go to out (io.Discard when
// nil) in the colors of palette.
func NewPipeline(
	loader *corpus.Loader,
	extractor *extract.Extractor,
	detector *gaps.Detector,
	outliner *markdown.Outliner,
	store *catalog.Store,
	logger *slog.Logger,
	out io.Writer,
	palette *report.Palette,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}
	if palette == nil {
		palette = report.NewPalette(false)
	}
	return &Pipeline{
		loader:    loader,
		extractor: extractor,
		detector:  detector,
		outliner:  outliner,
		store:     store,
		logger:    logger,
		out:       out,
		palette:   palette,
		now:       time.Now,
		save:      store.Save,
	}
}

// AnalyzeDocument builds a fresh catalog entry for one document. It never
// reads prior catalog state.
func (p *Pipeline) AnalyzeDocument(doc *corpus.Document) *catalog.Entry {
	entry := catalog.NewEntry(doc.Path, p.now())

	entry.Entities = p.extractor.Entities(doc)
	entry.Coverage = p.extractor.Coverage(doc)
	entry.Mentions = p.extractor.Mentions(doc.Content)
	entry.CrossReferences.Outgoing = extract.CrossReferences(doc.Content)
	entry.Facts = extract.Facts(doc.Content)

	sections, err := p.outliner.Outline([]byte(doc.Content))
	if err != nil {
		p.logger.Warn("Outline failed, leaving sections empty", "path", doc.Path, "error", err)
	} else {
		entry.Sections = sections
	}

	entry.Gaps = p.detector.Detect(doc.Stem(), entry.Coverage, doc.Content)
	return entry
}

// RunFullScan analyzes and persists every content document, links
// cross-references across the corpus, re-persists the linked entries, and
// writes the repository metadata. A document that fails is recorded in
// Failed and the scan continues.
func (p *Pipeline) RunFullScan() (*ScanResult, error) {
	start := time.Now()
	result := &ScanResult{}

	if err := p.store.Init(); err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	paths, err := p.loader.List()
	if err != nil {
		return nil, fmt.Errorf("list docs: %w", err)
	}
	p.logger.Info("Starting scan", "root", p.loader.Root(), "documents", len(paths))
	fmt.Fprintf(p.out, "Found %d content documents\n\n", len(paths))

	for _, path := range paths {
		entry, err := p.processDocument(path)
		if err != nil {
			p.logger.Warn("Failed to analyze document", "path", path, "error", err)
			result.Failed = append(result.Failed, FailedDoc{Path: path, Reason: err.Error()})
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	fmt.Fprintf(p.out, "\n%s\n", p.palette.Cyan("🔗 Detecting asymmetric cross-references..."))
	result.Asymmetric = catalog.LinkReferences(result.Entries)
	fmt.Fprintf(p.out, "  Found %d asymmetric cross-references\n", result.Asymmetric)

	// Entries whose linked record could not be stored are left out of the
	// report and metadata, so both describe only what is on disk.
	linked := result.Entries[:0]
	for _, entry := range result.Entries {
		if err := p.save(entry); err != nil {
			p.logger.Warn("Failed to save linked entry", "path", entry.Document, "error", err)
			result.Failed = append(result.Failed, FailedDoc{Path: entry.Document, Reason: err.Error()})
			continue
		}
		linked = append(linked, entry)
	}
	result.Entries = linked

	report.GapReport(p.out, p.palette, result.Entries, p.now())

	result.Metadata = catalog.Summarize(result.Entries, p.now())
	if err := p.store.SaveMetadata(result.Metadata); err != nil {
		return nil, fmt.Errorf("save metadata: %w", err)
	}
	fmt.Fprintln(p.out, p.palette.Green("✅ Catalog metadata saved"))

	result.Duration = time.Since(start)
	p.logger.Info("Scan complete",
		"documents", len(result.Entries),
		"failed", len(result.Failed),
		"gaps", result.Metadata.TotalGaps,
		"asymmetric", result.Asymmetric,
		"duration", result.Duration,
	)

	return result, nil
}

// processDocument reads, analyzes and persists one document.
func (p *Pipeline) processDocument(path string) (*catalog.Entry, error) {
	fmt.Fprintf(p.out, "  📄 Analyzing %s...\n", path)

	doc, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	entry := p.AnalyzeDocument(doc)
	p.logger.Debug("Analyzed document", "path", path, "gaps", len(entry.Gaps), "refs", len(entry.CrossReferences.Outgoing))

	if err := p.save(entry); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	fmt.Fprintf(p.out, "    ✅ Catalog saved to %s\n", p.store.EntryPath(path))

	return entry, nil
}

// Rescan runs a full scan and discards the result. It lets the research loop
// rebuild the catalog between attempts.
func (p *Pipeline) Rescan(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.RunFullScan()
	return err
}
