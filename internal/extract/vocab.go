package extract

import "github.com/bull/panopticon/internal/corpus"

// Vocabulary holds the literal term lists that drive extraction. Matching is
// heuristic, so the lists and their order are data rather than logic: the
// first framework found wins, and confidence levels are tried in order.
type Vocabulary struct {
	Frameworks       []string
	ConfidenceLevels []string
	Services         []string
	Providers        []string
	Infrastructure   []string
	Customers        []string
	Topics           map[corpus.Category][]string
}

// DefaultVocabulary returns the vocabulary of the Panopticon knowledge base.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Frameworks:       []string{"GoFiber", "Fiber", "Temporal", "React", "Next.js", "Express"},
		ConfidenceLevels: []string{"HIGH", "MEDIUM", "LOW"},
		Services: []string{
			"api", "temporal", "messenger", "token-manager", "scribe",
			"metrics-service", "mcpanda", "builder-mcp",
		},
		Providers:      []string{"salesforce", "hubspot", "slack", "notion", "stripe"},
		Infrastructure: []string{"gcp", "kubernetes", "k8s", "docker", "argocd", "postgres", "temporal"},
		Customers:      []string{},
		Topics: map[corpus.Category][]string{
			corpus.Services: {
				"authentication", "rate_limiting", "error_handling",
				"deployment", "scaling", "monitoring", "testing",
			},
			corpus.Providers: {
				"oauth", "rate_limiting", "api_versions",
				"webhooks", "data_model", "quirks",
			},
			corpus.Infrastructure: {
				"deployment", "scaling", "monitoring",
				"security", "disaster_recovery",
			},
		},
	}
}

// TopicsFor returns the topic list assessed for a category. Categories
// without a list get none.
func (v *Vocabulary) TopicsFor(c corpus.Category) []string {
	return v.Topics[c]
}
