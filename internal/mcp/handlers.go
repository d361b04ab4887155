package mcp

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/panopticon/internal/catalog"
	"github.com/bull/panopticon/internal/corpus"
	"github.com/bull/panopticon/internal/xref"
)

// makeListDocumentsHandler creates the list_documents tool handler.
func makeListDocumentsHandler(store *catalog.Store) func(
	context.Context, *mcp.CallToolRequest, ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListDocumentsInput) (
		*mcp.CallToolResult, ListDocumentsOutput, error,
	) {
		entries, err := store.LoadAll()
		if err != nil {
			return nil, ListDocumentsOutput{}, fmt.Errorf("failed to load catalog: %w", err)
		}

		docs := make([]DocumentSummary, 0, len(entries))
		for _, e := range entries {
			docs = append(docs, DocumentSummary{
				Path:         e.Document,
				Category:     string(corpus.CategoryOf(e.Document)),
				ServiceName:  e.Entities.ServiceName,
				ProviderName: e.Entities.ProviderName,
				Gaps:         len(e.Gaps),
				LastAnalyzed: e.LastAnalyzed.Format(time.RFC3339),
			})
		}

		return nil, ListDocumentsOutput{Documents: docs, Count: len(docs)}, nil
	}
}

// makeGetEntryHandler creates the get_catalog_entry tool handler.
// A document without an entry is reported with Found false, not as an error.
func makeGetEntryHandler(store *catalog.Store) func(
	context.Context, *mcp.CallToolRequest, GetCatalogEntryInput,
) (*mcp.CallToolResult, GetCatalogEntryOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetCatalogEntryInput) (
		*mcp.CallToolResult, GetCatalogEntryOutput, error,
	) {
		docPath, err := cleanDocPath(input.Path)
		if err != nil {
			return nil, GetCatalogEntryOutput{}, err
		}

		entry, err := store.Load(docPath)
		if err != nil {
			if errors.Is(err, catalog.ErrEntryNotFound) {
				return nil, GetCatalogEntryOutput{Found: false, Path: docPath}, nil
			}
			return nil, GetCatalogEntryOutput{}, fmt.Errorf("failed to load entry: %w", err)
		}

		return nil, GetCatalogEntryOutput{Found: true, Path: docPath, Entry: entry}, nil
	}
}

// makeListGapsHandler creates the list_gaps tool handler.
// Gaps are returned most urgent first, then in document order.
func makeListGapsHandler(store *catalog.Store) func(
	context.Context, *mcp.CallToolRequest, ListGapsInput,
) (*mcp.CallToolResult, ListGapsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListGapsInput) (
		*mcp.CallToolResult, ListGapsOutput, error,
	) {
		priorities := catalog.Priorities
		if input.Priority != "" {
			p := catalog.Priority(strings.ToLower(input.Priority))
			if !slices.Contains(catalog.Priorities, p) {
				return nil, ListGapsOutput{}, fmt.Errorf("unknown priority %q", input.Priority)
			}
			priorities = []catalog.Priority{p}
		}

		entries, err := store.LoadAll()
		if err != nil {
			return nil, ListGapsOutput{}, fmt.Errorf("failed to load catalog: %w", err)
		}

		results := []GapResult{}
		for _, priority := range priorities {
			for _, e := range entries {
				if input.Document != "" && e.Document != path.Clean(input.Document) {
					continue
				}
				for _, g := range e.Gaps {
					if g.Priority != priority {
						continue
					}
					results = append(results, GapResult{
						Document:    e.Document,
						ID:          g.ID,
						Type:        string(g.Type),
						Topic:       g.Topic,
						Priority:    string(g.Priority),
						Description: g.Description,
					})
				}
			}
		}

		out := ListGapsOutput{Gaps: results, Count: len(results)}
		if len(results) == 0 {
			out.Message = "No gaps found."
		}
		return nil, out, nil
	}
}

// makeStatusHandler creates the get_catalog_status tool handler.
// Totals come from metadata.yaml when present; gap counts per priority are
// always computed from the entries.
func makeStatusHandler(store *catalog.Store) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusOutput, error,
	) {
		entries, err := store.LoadAll()
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("failed to load catalog: %w", err)
		}

		out := StatusOutput{
			CatalogDir:     store.Dir(),
			GapsByPriority: map[string]int{},
		}
		for _, e := range entries {
			for _, g := range e.Gaps {
				out.GapsByPriority[string(g.Priority)]++
			}
		}

		meta, err := store.LoadMetadata()
		switch {
		case errors.Is(err, catalog.ErrMetadataNotFound):
			summary := catalog.Summarize(entries, time.Time{})
			out.TotalDocuments = summary.TotalDocuments
			out.TotalGaps = summary.TotalGaps
			out.TotalEntities = summary.TotalEntities
			out.DocumentsAnalyzed = summary.DocumentsAnalyzed.Map()
			out.StaleWarning = "No full scan recorded. Run analyze to build the catalog."
		case err != nil:
			return nil, StatusOutput{}, fmt.Errorf("failed to load metadata: %w", err)
		default:
			out.LastFullScan = meta.LastFullScan.Format(time.RFC3339)
			out.TotalDocuments = meta.TotalDocuments
			out.TotalGaps = meta.TotalGaps
			out.TotalEntities = meta.TotalEntities
			out.DocumentsAnalyzed = meta.DocumentsAnalyzed.Map()
		}

		return nil, out, nil
	}
}

// makeValidateHandler creates the validate_refs tool handler. Roots are
// resolved against repoRoot and may not leave it.
func makeValidateHandler(validator *xref.Validator, repoRoot string) func(
	context.Context, *mcp.CallToolRequest, ValidateRefsInput,
) (*mcp.CallToolResult, ValidateRefsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateRefsInput) (
		*mcp.CallToolResult, ValidateRefsOutput, error,
	) {
		root := repoRoot
		if input.Root != "" {
			rel := filepath.Clean(filepath.FromSlash(input.Root))
			if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return nil, ValidateRefsOutput{}, fmt.Errorf("root %q must be inside the repository", input.Root)
			}
			root = filepath.Join(repoRoot, rel)
		}

		result, err := validator.Validate(ctx, root)
		if err != nil {
			return nil, ValidateRefsOutput{}, fmt.Errorf("validation failed: %w", err)
		}

		broken := make([]BrokenRef, 0, len(result.Broken))
		for _, b := range result.Broken {
			file := b.File
			if rel, err := filepath.Rel(repoRoot, b.File); err == nil {
				file = filepath.ToSlash(rel)
			}
			broken = append(broken, BrokenRef{File: file, Ref: b.Ref, Kind: string(b.Kind)})
		}

		return nil, ValidateRefsOutput{
			Valid:        result.OK(),
			CheckedFiles: result.CheckedFiles,
			TotalRefs:    result.TotalRefs,
			Broken:       broken,
		}, nil
	}
}

// cleanDocPath normalizes a document path and rejects paths outside the
// repository.
func cleanDocPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path is required")
	}
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(p), "./"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("path %q must be relative to the repository root", p)
	}
	return clean, nil
}
