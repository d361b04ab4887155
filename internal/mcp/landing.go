package mcp

import "net/http"

const landingHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Panopticon Catalog</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; max-width: 640px; margin: 3rem auto; padding: 0 1rem; color: #1f2937; }
  code, pre { font-family: Menlo, monospace; background: #f3f4f6; border-radius: 4px; }
  pre { padding: 0.75rem; }
  li { margin-bottom: 0.25rem; }
</style>
</head>
<body>
<h1>Panopticon Catalog</h1>
<p>Read-only access to the documentation knowledge catalog over the Model Context Protocol.</p>
<h2>Endpoints</h2>
<ul>
  <li><a href="/mcp"><code>/mcp</code></a> MCP Streamable HTTP</li>
  <li><a href="/health"><code>/health</code></a> catalog health</li>
</ul>
<h2>Tools</h2>
<ul>
  <li><code>list_documents</code></li>
  <li><code>get_catalog_entry</code></li>
  <li><code>list_gaps</code></li>
  <li><code>get_catalog_status</code></li>
  <li><code>validate_refs</code></li>
</ul>
<pre><code>claude mcp add panopticon --transport http http://localhost:8080/mcp</code></pre>
</body>
</html>`

// NewLandingHandler returns an HTTP handler that serves the landing page at /.
func NewLandingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(landingHTML))
	}
}
