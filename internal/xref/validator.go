// Package xref checks that documents referenced from markdown files exist.
package xref

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Kind is the syntax a reference was written in.
type Kind string

const (
	Backtick Kind = "backtick" // `file.md`
	Link     Kind = "link"     // [text](file.md)
)

var (
	backtickRef = regexp.MustCompile("`([^`]+\\.md)`")
	linkRef     = regexp.MustCompile(`\]\(([^)]+\.md[^)]*)\)`)
)

// Broken is one reference that did not resolve.
type Broken struct {
	File string // Path of the referencing file as walked
	Ref  string // Reference text as written
	Kind Kind
}

// Result aggregates one validation pass.
type Result struct {
	Broken       []Broken
	CheckedFiles int
	TotalRefs    int
}

// OK reports whether no broken reference remains.
func (r *Result) OK() bool {
	return len(r.Broken) == 0
}

// RemoteChecker verifies references into an external repository.
type RemoteChecker interface {
	Exists(ctx context.Context, ref string) (bool, error)
}

// Options configure a Validator.
type Options struct {
	// Rules defaults to DefaultRules.
	Rules *Rules
	// WorkDir anchors working-directory and content-root lookups. Defaults
	// to the process working directory.
	WorkDir string
	// Strict disables the template and external-reference exclusions.
	Strict bool
	// Remote, when set, verifies external references instead of skipping them.
	Remote RemoteChecker
	Logger *slog.Logger
}

// Validator walks a tree of markdown files and checks their references.
type Validator struct {
	rules   *Rules
	workDir string
	strict  bool
	remote  RemoteChecker
	logger  *slog.Logger
}

// NewValidator creates a validator.
func NewValidator(opts Options) (*Validator, error) {
	if opts.Rules == nil {
		opts.Rules = DefaultRules()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		opts.WorkDir = wd
	}
	return &Validator{
		rules:   opts.Rules,
		workDir: opts.WorkDir,
		strict:  opts.Strict,
		remote:  opts.Remote,
		logger:  opts.Logger,
	}, nil
}

// Validate checks every markdown file under root. Broken references are
// collected, not returned as errors; an error means the walk itself failed.
func (v *Validator) Validate(ctx context.Context, root string) (*Result, error) {
	result := &Result{Broken: []Broken{}}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == root {
				return fs.SkipAll
			}
			v.logger.Warn("Skipping unreadable path", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if p != root && v.rules.skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") || v.rules.skipFile(p) {
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			v.logger.Warn("Skipping unreadable file", "path", p, "error", err)
			return nil
		}
		result.CheckedFiles++
		v.checkFile(ctx, p, strings.ToValidUTF8(string(data), "�"), result)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return result, nil
}

func (v *Validator) checkFile(ctx context.Context, file, content string, result *Result) {
	for _, ref := range BacktickRefs(content) {
		result.TotalRefs++
		if !v.Exists(ctx, ref, file) {
			result.Broken = append(result.Broken, Broken{File: file, Ref: ref, Kind: Backtick})
		}
	}
	for _, ref := range LinkRefs(content) {
		result.TotalRefs++
		if !v.Exists(ctx, ref, file) {
			result.Broken = append(result.Broken, Broken{File: file, Ref: ref, Kind: Link})
		}
	}
}

// BacktickRefs extracts `name.md` references.
func BacktickRefs(content string) []string {
	var refs []string
	for _, m := range backtickRef.FindAllStringSubmatch(content, -1) {
		refs = append(refs, m[1])
	}
	return refs
}

// LinkRefs extracts [text](path.md) targets, dropping http(s) URLs.
func LinkRefs(content string) []string {
	var refs []string
	for _, m := range linkRef.FindAllStringSubmatch(content, -1) {
		if strings.HasPrefix(m[1], "http://") || strings.HasPrefix(m[1], "https://") {
			continue
		}
		refs = append(refs, m[1])
	}
	return refs
}

// Exists resolves ref as written in file. Lookups, in order: next to the
// file, the working directory, each content root, each content root with
// the base name only.
func (v *Validator) Exists(ctx context.Context, ref, file string) bool {
	ref, _, _ = strings.Cut(ref, "#")
	if ref == "" {
		return true
	}

	if !v.strict {
		if v.rules.IsExternal(ref) && v.remote != nil {
			return v.remoteExists(ctx, ref)
		}
		if v.rules.IsTemplate(ref) || v.rules.IsExternal(ref) {
			return true
		}
	}

	candidates := []string{
		filepath.Join(filepath.Dir(file), ref),
		v.fromWorkDir(ref),
	}
	for _, dir := range v.rules.ContentRoots {
		candidates = append(candidates,
			filepath.Join(v.workDir, dir, ref),
			filepath.Join(v.workDir, dir, filepath.Base(ref)),
		)
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return true
		}
	}
	return false
}

func (v *Validator) fromWorkDir(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(v.workDir, ref)
}

func (v *Validator) remoteExists(ctx context.Context, ref string) bool {
	ok, err := v.remote.Exists(ctx, ref)
	if err != nil {
		v.logger.Warn("Remote check failed, treating reference as valid", "ref", ref, "error", err)
		return true
	}
	return ok
}
