// Package extract pulls structured facts out of a markdown document: entities,
// topic coverage, mentions of known terms, cross-references, and key facts.
// Every rule is a literal or regex match; nothing here understands language.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bull/panopticon/internal/catalog"
	"github.com/bull/panopticon/internal/corpus"
)

const (
	maxDetailsLen    = 100
	maxLinkContext   = 50
	maxFacts         = 5
	minFactLen       = 20
	maxFactLen       = 150
	backtickContext  = "backtick reference"
	confidencePrefix = "Confidence:** "
)

var (
	portPattern     = regexp.MustCompile(`(?i)port[:\s]+(\d{4,5})`)
	linkPattern     = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+\.md[^)]*)\)`)
	backtickPattern = regexp.MustCompile("`([^`]+\\.md)`")
)

// Extractor applies a Vocabulary to document text.
type Extractor struct {
	vocab  *Vocabulary
	topics map[string]*regexp.Regexp
}

// NewExtractor creates an extractor. A nil vocabulary means DefaultVocabulary.
func NewExtractor(vocab *Vocabulary) *Extractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	topics := make(map[string]*regexp.Regexp)
	for _, list := range vocab.Topics {
		for _, topic := range list {
			topics[topic] = topicPattern(topic)
		}
	}
	return &Extractor{vocab: vocab, topics: topics}
}

// Vocabulary returns the vocabulary in use.
func (x *Extractor) Vocabulary() *Vocabulary {
	return x.vocab
}

// Entities extracts the name, ports, framework and confidence of doc.
func (x *Extractor) Entities(doc *corpus.Document) catalog.Entities {
	var e catalog.Entities

	switch doc.Category {
	case corpus.Services:
		e.ServiceName = doc.Stem()
	case corpus.Providers:
		e.ProviderName = doc.Stem()
	}

	seen := make(map[string]bool)
	for _, m := range portPattern.FindAllStringSubmatch(doc.Content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			e.Ports = append(e.Ports, m[1])
		}
	}

	for _, fw := range x.vocab.Frameworks {
		if strings.Contains(doc.Content, fw) {
			e.Framework = fw
			break
		}
	}

	for _, level := range x.vocab.ConfidenceLevels {
		if strings.Contains(doc.Content, confidencePrefix+level) {
			e.Confidence = level
			break
		}
	}

	return e
}

// Coverage assesses every topic of the document's category, in list order.
func (x *Extractor) Coverage(doc *corpus.Document) catalog.Coverage {
	topics := x.vocab.TopicsFor(doc.Category)
	coverage := make(catalog.Coverage, 0, len(topics))
	if len(topics) == 0 {
		return coverage
	}

	lines := strings.Split(doc.Content, "\n")
	for _, topic := range topics {
		pattern, ok := x.topics[topic]
		if !ok {
			pattern = topicPattern(topic)
		}
		coverage = append(coverage, catalog.TopicCoverage{
			Topic: topic,
			Info:  assess(pattern, lines),
		})
	}
	return coverage
}

// assess counts the lines matching pattern and buckets the count.
func assess(pattern *regexp.Regexp, lines []string) catalog.CoverageInfo {
	var first string
	count := 0
	for _, line := range lines {
		if pattern.MatchString(line) {
			if count == 0 {
				first = line
			}
			count++
		}
	}

	return catalog.CoverageInfo{
		Density:   DensityFor(count),
		Details:   truncate(first, maxDetailsLen),
		LineCount: count,
	}
}

// DensityFor buckets a matching-line count.
func DensityFor(lineCount int) catalog.Density {
	switch {
	case lineCount >= 5:
		return catalog.Detailed
	case lineCount >= 2:
		return catalog.Mentioned
	case lineCount == 1:
		return catalog.Brief
	default:
		return catalog.NotCovered
	}
}

// topicPattern matches a topic name as a case-insensitive phrase, reading
// underscores as spaces: "rate_limiting" matches "Rate limiting".
func topicPattern(topic string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(TopicPhrase(topic)))
}

// TopicPhrase renders a topic name as the phrase searched for in text.
func TopicPhrase(topic string) string {
	return strings.ReplaceAll(topic, "_", " ")
}

// Mentions reports which known terms occur in the text. Matching is
// case-insensitive substring containment, so "api" also matches "rapid";
// that imprecision is accepted.
func (x *Extractor) Mentions(content string) catalog.Mentions {
	lower := strings.ToLower(content)
	return catalog.Mentions{
		Services:       matchTerms(lower, x.vocab.Services),
		Providers:      matchTerms(lower, x.vocab.Providers),
		Infrastructure: matchTerms(lower, x.vocab.Infrastructure),
		Customers:      matchTerms(lower, x.vocab.Customers),
	}
}

func matchTerms(lower string, terms []string) []string {
	found := []string{}
	seen := make(map[string]bool)
	for _, term := range terms {
		if !seen[term] && strings.Contains(lower, strings.ToLower(term)) {
			seen[term] = true
			found = append(found, term)
		}
	}
	sort.Strings(found)
	return found
}

// CrossReferences extracts markdown links to .md targets, then backtick
// references not already captured. Anchors are stripped from links and
// absolute URLs are dropped.
func CrossReferences(content string) []catalog.Reference {
	refs := []catalog.Reference{}
	seen := make(map[string]bool)

	for _, m := range linkPattern.FindAllStringSubmatch(content, -1) {
		text, target := m[1], m[2]
		target, _, _ = strings.Cut(target, "#")
		if strings.HasPrefix(target, "http") {
			continue
		}
		refs = append(refs, catalog.Reference{Target: target, Context: truncate(text, maxLinkContext)})
		seen[target] = true
	}

	for _, m := range backtickPattern.FindAllStringSubmatch(content, -1) {
		target := m[1]
		if seen[target] {
			continue
		}
		refs = append(refs, catalog.Reference{Target: target, Context: backtickContext})
		seen[target] = true
	}

	return refs
}

// Facts returns up to five bullet-point lines of reasonable length.
func Facts(content string) []string {
	facts := []string{}
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "- ") {
			continue
		}
		fact := trimmed[2:]
		if n := utf8.RuneCountInString(fact); n > minFactLen && n < maxFactLen {
			facts = append(facts, fact)
		}
		if len(facts) >= maxFacts {
			break
		}
	}
	return facts
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
