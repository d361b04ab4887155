// Package mcp exposes the Panopticon catalog over the Model Context Protocol.
package mcp

import "github.com/bull/panopticon/internal/catalog"

// ListDocumentsInput defines the input parameters for the list_documents tool.
// This tool takes no parameters.
type ListDocumentsInput struct{}

// ListDocumentsOutput lists every cataloged document.
type ListDocumentsOutput struct {
	// Documents holds one summary per catalog entry, in path order.
	Documents []DocumentSummary `json:"documents"`
	// Count is the total number of documents.
	Count int `json:"count"`
}

// DocumentSummary is the short form of a catalog entry.
type DocumentSummary struct {
	Path         string `json:"path"`
	Category     string `json:"category"`
	ServiceName  string `json:"service_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
	Gaps         int    `json:"gaps"`
	LastAnalyzed string `json:"last_analyzed"`
}

// GetCatalogEntryInput defines the input parameters for the get_catalog_entry tool.
type GetCatalogEntryInput struct {
	// Path is the document path relative to the repository root.
	Path string `json:"path" jsonschema:"The document path, e.g. services/api.md"`
}

// GetCatalogEntryOutput contains one catalog entry.
type GetCatalogEntryOutput struct {
	// Found indicates whether the document has a catalog entry.
	Found bool `json:"found"`
	// Path echoes the requested path.
	Path string `json:"path"`
	// Entry is the full record, present only when Found is true.
	Entry *catalog.Entry `json:"entry,omitempty"`
}

// ListGapsInput defines the input parameters for the list_gaps tool.
type ListGapsInput struct {
	// Priority keeps only gaps of this priority (blocking, high, medium, low).
	Priority string `json:"priority,omitempty" jsonschema:"Only gaps with this priority: blocking, high, medium or low"`
	// Document keeps only gaps of this document path.
	Document string `json:"document,omitempty" jsonschema:"Only gaps of this document path, e.g. services/api.md"`
}

// ListGapsOutput contains the matching gaps.
type ListGapsOutput struct {
	Gaps  []GapResult `json:"gaps"`
	Count int         `json:"count"`
	// Message provides informational context (e.g., "No gaps found").
	Message string `json:"message,omitempty"`
}

// GapResult is a gap together with the document it belongs to.
type GapResult struct {
	Document    string `json:"document"`
	ID          string `json:"gap_id"`
	Type        string `json:"gap_type"`
	Topic       string `json:"topic"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// StatusInput defines the input parameters for the get_catalog_status tool.
type StatusInput struct{}

// StatusOutput summarizes the catalog.
type StatusOutput struct {
	CatalogDir        string         `json:"catalog_dir"`
	LastFullScan      string         `json:"last_full_scan,omitempty"`
	TotalDocuments    int            `json:"total_documents"`
	TotalGaps         int            `json:"total_gaps"`
	TotalEntities     int            `json:"total_entities"`
	DocumentsAnalyzed map[string]int `json:"documents_analyzed"`
	GapsByPriority    map[string]int `json:"gaps_by_priority"`
	// StaleWarning is set when no full scan has been recorded.
	StaleWarning string `json:"stale_warning,omitempty"`
}

// ValidateRefsInput defines the input parameters for the validate_refs tool.
type ValidateRefsInput struct {
	// Root is the directory to validate, relative to the repository root.
	Root string `json:"root,omitempty" jsonschema:"Directory to validate relative to the repository root (default: whole repository)"`
}

// ValidateRefsOutput reports broken references.
type ValidateRefsOutput struct {
	Valid        bool        `json:"valid"`
	CheckedFiles int         `json:"checked_files"`
	TotalRefs    int         `json:"total_refs"`
	Broken       []BrokenRef `json:"broken"`
}

// BrokenRef is one reference whose target does not exist.
type BrokenRef struct {
	File string `json:"file"`
	Ref  string `json:"ref"`
	Kind string `json:"kind"`
}
