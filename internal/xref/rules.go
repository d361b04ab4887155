package xref

import (
	"path/filepath"
	"strings"
)

// Rules are the literal exclusion and resolution lists of the validator.
type Rules struct {
	// SkipDirs are directory names never descended into.
	SkipDirs []string
	// SkipFiles are file names whose references are examples, not links.
	SkipFiles []string
	// SkipPathParts exclude any file whose slash path contains one of them.
	SkipPathParts []string
	// TemplateMarkers flag references that are placeholders.
	TemplateMarkers []string
	// ExternalPrefixes flag references into other repositories or environments.
	ExternalPrefixes []string
	// ContentRoots are tried, relative to the working directory, when a
	// reference does not resolve next to its file.
	ContentRoots []string
}

// DefaultRules returns the rules of the Panopticon repository.
func DefaultRules() *Rules {
	return &Rules{
		SkipDirs: []string{"archive", ".git"},
		SkipFiles: []string{
			"KNOWLEDGE-SOURCES.md",
			"INGESTION-PIPELINE.md",
			"AGENT-ONBOARDING.md",
			"SYSTEMS.md",
		},
		SkipPathParts: []string{
			".claude/agents",
			".claude/agent-memory",
			".claude/my-memory",
			".claude/skills",
		},
		TemplateMarkers: []string{
			"YYYY", "MM", "DD", "QN",
			"[", "{",
			"...", "example", "sample",
		},
		ExternalPrefixes: []string{
			"server/", "mcpanda://", "argocd/",
			"~/.claude/",
			"/app/",
			"ENV_VARS.md",
		},
		ContentRoots: []string{
			"providers", "services", "infrastructure",
			"customers", "team", "processes",
		},
	}
}

// skipFile reports whether a markdown file is excluded from validation.
func (r *Rules) skipFile(p string) bool {
	name := filepath.Base(p)
	for _, f := range r.SkipFiles {
		if name == f {
			return true
		}
	}
	slash := filepath.ToSlash(p)
	if name == "README.md" && strings.Contains(slash, "staging") {
		return true
	}
	for _, part := range r.SkipPathParts {
		if strings.Contains(slash, part) {
			return true
		}
	}
	return false
}

func (r *Rules) skipDir(name string) bool {
	for _, d := range r.SkipDirs {
		if name == d {
			return true
		}
	}
	return false
}

// IsTemplate reports whether ref contains placeholder syntax such as
// "YYYY-MM-DD" or "[name]". Markers are matched case-sensitively anywhere
// in the reference.
func (r *Rules) IsTemplate(ref string) bool {
	for _, m := range r.TemplateMarkers {
		if strings.Contains(ref, m) {
			return true
		}
	}
	return false
}

// IsExternal reports whether ref points outside this repository.
func (r *Rules) IsExternal(ref string) bool {
	for _, prefix := range r.ExternalPrefixes {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}
