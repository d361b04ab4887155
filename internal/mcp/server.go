package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/panopticon/internal/catalog"
	"github.com/bull/panopticon/internal/xref"
)

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
	store  *catalog.Store
	logger *slog.Logger
}

// Config holds server dependencies.
type Config struct {
	// Store is the catalog served by the read-only tools.
	Store *catalog.Store
	// Validator backs validate_refs.
	Validator *xref.Validator
	// Root is the repository root that validate_refs roots are relative to.
	Root   string
	Logger *slog.Logger
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	impl := &mcp.Implementation{
		Name:    "panopticon-catalog-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List every document in the Panopticon knowledge catalog with its category, primary entity and gap count.",
	}, makeListDocumentsHandler(cfg.Store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_catalog_entry",
		Description: "Retrieve the full catalog entry of one document: entities, topic coverage, mentions, cross-references, gaps, key facts and sections.",
	}, makeGetEntryHandler(cfg.Store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_gaps",
		Description: "List documentation gaps, most urgent first. Optionally filter by priority (blocking, high, medium, low) or document path.",
	}, makeListGapsHandler(cfg.Store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_catalog_status",
		Description: "Get catalog totals: documents, entities, gaps per priority, documents per category and the time of the last full scan.",
	}, makeStatusHandler(cfg.Store))

	if cfg.Validator != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "validate_refs",
			Description: "Check that file references in the repository's markdown (backtick paths and relative links) point at existing files.",
		}, makeValidateHandler(cfg.Validator, cfg.Root))
	}

	return &Server{
		server: server,
		store:  cfg.Store,
		logger: logger,
	}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Serving catalog over stdio", "catalog", s.store.Dir())
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
