// Package corpus enumerates and reads the markdown documents of a Panopticon
// repository.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Category is the content directory a document lives under.
type Category string

const (
	Services       Category = "services"
	Providers      Category = "providers"
	Infrastructure Category = "infrastructure"
	Customers      Category = "customers"
	// Other covers documents outside the known content directories.
	Other Category = ""
)

// Categories lists the scanned content directories in scan order.
var Categories = []Category{Services, Providers, Infrastructure, Customers}

// indexSuffix marks directory index files, which are not content.
const indexSuffix = "-index.md"

// Document is one markdown file read from the repository.
type Document struct {
	Path     string   // Slash-separated path relative to the repository root: "services/api.md"
	Category Category // Inferred from the path
	Content  string   // Raw text, invalid UTF-8 replaced
}

// Stem returns the file name without its extension: "api" for "services/api.md".
func (d *Document) Stem() string {
	return Stem(d.Path)
}

// Stem returns the base name of p without its extension.
func Stem(p string) string {
	base := path.Base(filepath.ToSlash(p))
	return strings.TrimSuffix(base, path.Ext(base))
}

// CategoryOf infers the content category from any path segment, so both
// "services/api.md" and "docs/services/api.md" are services documents.
func CategoryOf(p string) Category {
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		for _, c := range Categories {
			if part == string(c) {
				return c
			}
		}
	}
	return Other
}

// Loader reads content documents from a repository root.
type Loader struct {
	root string
}

// NewLoader creates a loader rooted at root.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Root returns the repository root.
func (l *Loader) Root() string {
	return l.root
}

// List returns the relative paths of all content documents, sorted.
// Only top-level markdown files of each content directory are included and
// "*-index.md" files are skipped. A missing content directory contributes
// nothing.
func (l *Loader) List() ([]string, error) {
	var docs []string

	for _, c := range Categories {
		dir := filepath.Join(l.root, string(c))
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}

		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".md") {
				continue
			}
			if strings.HasSuffix(name, indexSuffix) {
				continue
			}
			docs = append(docs, path.Join(string(c), name))
		}
	}

	sort.Strings(docs)
	return docs, nil
}

// Load reads one document by its relative path.
func (l *Loader) Load(relPath string) (*Document, error) {
	data, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}

	return &Document{
		Path:     relPath,
		Category: CategoryOf(relPath),
		Content:  strings.ToValidUTF8(string(data), "�"),
	}, nil
}
