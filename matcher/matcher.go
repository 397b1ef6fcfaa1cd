// Package matcher decides whether a scraped product name corresponds to an
// entry in the tracked-product catalog. Scraped titles are noisy
// (abbreviations, reordered words, unit variants), so a single strict check
// under- or over-matches; instead an ordered list of strategies is combined
// with short-circuit OR semantics, trusting downstream dedup and thresholds
// to control the noise.
package matcher

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/Sakshikhade/wee-price-tracker/config"
)

// Strategy is one independently testable matching rule. Match reports
// whether candidate should be considered the same product as tracked.
type Strategy interface {
	Name() string
	Match(tracked, candidate string) bool
}

// ExactStrategy matches on case-insensitive equality.
type ExactStrategy struct{}

func (ExactStrategy) Name() string { return "exact" }

func (ExactStrategy) Match(tracked, candidate string) bool {
	return strings.EqualFold(tracked, candidate)
}

// SimilarityStrategy matches when the normalized edit-distance similarity
// exceeds Threshold. 0.6 is the permissive default; 0.8 trades recall for
// precision.
type SimilarityStrategy struct {
	Threshold float64
}

func (SimilarityStrategy) Name() string { return "similarity" }

func (s SimilarityStrategy) Match(tracked, candidate string) bool {
	return Similarity(tracked, candidate) > s.Threshold
}

// Similarity returns an edit-distance ratio in [0,1] between two strings,
// case-insensitive. 1 means identical.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	distance := matchr.Levenshtein(a, b)
	return 1 - float64(distance)/float64(longest)
}

// WordOverlapStrategy matches when the candidate shares at least
// Ratio × |tracked tokens| whitespace-separated tokens with the tracked
// name, case-insensitive.
type WordOverlapStrategy struct {
	Ratio float64
}

func (WordOverlapStrategy) Name() string { return "word_overlap" }

func (s WordOverlapStrategy) Match(tracked, candidate string) bool {
	trackedWords := tokenSet(tracked)
	if len(trackedWords) == 0 {
		return false
	}
	candidateWords := tokenSet(candidate)

	common := 0
	for w := range trackedWords {
		if _, ok := candidateWords[w]; ok {
			common++
		}
	}
	return float64(common) >= float64(len(trackedWords))*s.Ratio
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

// KeywordStrategy matches when a curated keyword pair appears on both sides:
// the tracked keyword in the tracked name and the candidate keyword in the
// candidate name.
type KeywordStrategy struct {
	Pairs []config.KeywordPair
}

func (KeywordStrategy) Name() string { return "keyword" }

func (s KeywordStrategy) Match(tracked, candidate string) bool {
	trackedLower := strings.ToLower(tracked)
	candidateLower := strings.ToLower(candidate)
	for _, pair := range s.Pairs {
		if strings.Contains(trackedLower, pair.Tracked) && strings.Contains(candidateLower, pair.Candidate) {
			return true
		}
	}
	return false
}

// Matcher checks candidate names against the catalog using its strategy
// list. The check is order-independent over the catalog: every tracked
// entry is considered, returning on the first strategy that matches.
type Matcher struct {
	products   []string
	strategies []Strategy
}

// New builds a Matcher with the default strategy order: exact, similarity,
// word overlap, keywords.
func New(cfg *config.Config, catalog *config.Catalog) *Matcher {
	return NewWithStrategies(catalog.Products,
		ExactStrategy{},
		SimilarityStrategy{Threshold: cfg.SimilarityThreshold},
		WordOverlapStrategy{Ratio: cfg.WordOverlapRatio},
		KeywordStrategy{Pairs: catalog.KeywordPairs()},
	)
}

// NewWithStrategies builds a Matcher with an explicit strategy list, in the
// order they should be consulted.
func NewWithStrategies(products []string, strategies ...Strategy) *Matcher {
	return &Matcher{products: products, strategies: strategies}
}

// Match returns the canonical tracked name the candidate corresponds to.
// The second return is false when no catalog entry matches.
func (m *Matcher) Match(candidate string) (string, bool) {
	if candidate == "" {
		return "", false
	}
	for _, tracked := range m.products {
		for _, strategy := range m.strategies {
			if strategy.Match(tracked, candidate) {
				return tracked, true
			}
		}
	}
	return "", false
}

// IsTracked reports whether the candidate matches any tracked product.
func (m *Matcher) IsTracked(candidate string) bool {
	_, ok := m.Match(candidate)
	return ok
}
