package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bull/panopticon/internal/corpus"
)

// MetadataFile is the aggregate record at the catalog root.
const MetadataFile = "metadata.yaml"

// Store reads and writes catalog files under a single directory.
// Concurrent scans against the same directory are not coordinated.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. It performs no I/O; call Init
// before the first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the catalog root.
func (s *Store) Dir() string {
	return s.dir
}

// Init creates the catalog root and one subdirectory per content category.
func (s *Store) Init() error {
	for _, c := range corpus.Categories {
		if err := os.MkdirAll(filepath.Join(s.dir, string(c)), 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}
	return nil
}

// Health reports whether the catalog root exists and is a directory.
func (s *Store) Health(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrCatalogMissing, s.dir)
		}
		return fmt.Errorf("stat catalog: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrCatalogMissing, s.dir)
	}
	return nil
}

// EntryPath maps a document path to its catalog file:
// "services/api.md" -> "<dir>/services/api.yaml".
func (s *Store) EntryPath(document string) string {
	rel := filepath.FromSlash(document)
	return filepath.Join(s.dir, strings.TrimSuffix(rel, filepath.Ext(rel))+".yaml")
}

// Save writes entry, replacing any previous record for the same document.
func (s *Store) Save(entry *Entry) error {
	target := s.EntryPath(entry.Document)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", entry.Document, err)
	}
	return writeYAML(target, entry)
}

// Load reads the record for document.
func (s *Store) Load(document string) (*Entry, error) {
	var entry Entry
	if err := readYAML(s.EntryPath(document), &entry); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, document)
		}
		return nil, fmt.Errorf("load %s: %w", document, err)
	}
	return &entry, nil
}

// LoadAll reads every entry in the catalog, sorted by document path.
func (s *Store) LoadAll() ([]*Entry, error) {
	var entries []*Entry

	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == s.dir {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".yaml" {
			return nil
		}
		if p == filepath.Join(s.dir, MetadataFile) {
			return nil
		}

		var entry Entry
		if err := readYAML(p, &entry); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		entries = append(entries, &entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Document < entries[j].Document
	})
	return entries, nil
}

// SaveMetadata overwrites the aggregate record.
func (s *Store) SaveMetadata(m *Metadata) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	return writeYAML(filepath.Join(s.dir, MetadataFile), m)
}

// LoadMetadata reads the aggregate record.
func (s *Store) LoadMetadata() (*Metadata, error) {
	var m Metadata
	if err := readYAML(filepath.Join(s.dir, MetadataFile), &m); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrMetadataNotFound
		}
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	return &m, nil
}

// Summarize builds the aggregate record for a set of entries. Each document
// counts under exactly one category, matched by whole path segment, so
// "providers/metrics-services.md" is a providers document only.
func Summarize(entries []*Entry, now time.Time) *Metadata {
	m := &Metadata{
		LastFullScan:   now.UTC(),
		TotalDocuments: len(entries),
	}
	for _, e := range entries {
		m.TotalGaps += len(e.Gaps)
		m.TotalEntities += e.Entities.Count()

		switch corpus.CategoryOf(e.Document) {
		case corpus.Services:
			m.DocumentsAnalyzed.Services++
		case corpus.Providers:
			m.DocumentsAnalyzed.Providers++
		case corpus.Infrastructure:
			m.DocumentsAnalyzed.Infrastructure++
		case corpus.Customers:
			m.DocumentsAnalyzed.Customers++
		}
	}
	return m
}

// Stem is the document file name without extension, used as gap ID prefix.
func (e *Entry) Stem() string {
	return corpus.Stem(e.Document)
}

// Name is the document file name.
func (e *Entry) Name() string {
	return path.Base(e.Document)
}

func writeYAML(target string, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", target, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode %s: %w", target, err)
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

func readYAML(source string, v any) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}
