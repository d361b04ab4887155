// Package markdown reads the heading structure of markdown documents.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// Outliner lists the H1/H2 sections of a document.
type Outliner struct {
	parser goldmark.Markdown
}

// NewOutliner creates an outliner configured with a goldmark parser.
func NewOutliner() *Outliner {
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Outliner{parser: md}
}

// Outline returns one header path per H1/H2 heading in document order,
// e.g. "# Getting Started > ## Installation". Headings inside code blocks are
// not headings and are ignored. A document without headings has an empty
// outline.
func (o *Outliner) Outline(source []byte) ([]string, error) {
	doc := o.parser.Parser().Parse(text.NewReader(source))

	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(2),
		toc.Compact(true),
	)
	if err != nil {
		return nil, fmt.Errorf("inspect TOC: %w", err)
	}

	paths := []string{}
	collect(tree.Items, nil, &paths)
	return paths, nil
}

func collect(items toc.Items, ancestors []string, paths *[]string) {
	for _, item := range items {
		current := append(ancestors[:len(ancestors):len(ancestors)], string(item.Title))
		if len(item.Title) > 0 {
			*paths = append(*paths, formatHeaderPath(current))
		}
		collect(item.Items, current, paths)
	}
}

// formatHeaderPath builds a header hierarchy string.
// Example: ["Installation", "Prerequisites"] -> "# Installation > ## Prerequisites"
func formatHeaderPath(path []string) string {
	parts := make([]string, 0, len(path))
	for i, segment := range path {
		if segment == "" {
			continue
		}
		parts = append(parts, strings.Repeat("#", i+1)+" "+segment)
	}
	return strings.Join(parts, " > ")
}
