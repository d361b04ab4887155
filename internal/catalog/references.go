package catalog

import (
	"fmt"
	"path"
	"slices"
	"sort"
)

// LinkReferences runs the whole-corpus reference pass: it fills each entry's
// Incoming list and records Asymmetric references, where a document links to
// another catalog document that does not link back. Only targets that
// resolve to an entry in the set are considered. Returns the number of
// asymmetric references found.
func LinkReferences(entries []*Entry) int {
	byDoc := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		byDoc[e.Document] = e
		e.CrossReferences.Incoming = []string{}
		e.CrossReferences.Asymmetric = []string{}
	}

	count := 0
	for _, src := range entries {
		for _, ref := range src.CrossReferences.Outgoing {
			target := resolveTarget(byDoc, src.Document, ref.Target)
			if target == nil || target == src {
				continue
			}

			if !slices.Contains(target.CrossReferences.Incoming, src.Document) {
				target.CrossReferences.Incoming = append(target.CrossReferences.Incoming, src.Document)
			}

			if !referencesBack(byDoc, target, src) {
				src.CrossReferences.Asymmetric = append(src.CrossReferences.Asymmetric,
					fmt.Sprintf("%s→%s but %s doesn't reference %s", src.Name(), ref.Target, ref.Target, src.Name()))
				count++
			}
		}
	}

	for _, e := range entries {
		sort.Strings(e.CrossReferences.Incoming)
	}
	return count
}

// resolveTarget finds the entry a reference points at: the literal
// repository-relative path first, then the path relative to the source.
func resolveTarget(byDoc map[string]*Entry, from, target string) *Entry {
	if e, ok := byDoc[path.Clean(target)]; ok {
		return e
	}
	if e, ok := byDoc[path.Join(path.Dir(from), target)]; ok {
		return e
	}
	return nil
}

func referencesBack(byDoc map[string]*Entry, target, src *Entry) bool {
	for _, ref := range target.CrossReferences.Outgoing {
		if ref.Target == src.Name() {
			return true
		}
		if resolveTarget(byDoc, target.Document, ref.Target) == src {
			return true
		}
	}
	return false
}
