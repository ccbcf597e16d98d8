// Package ranker scores knowledge chunks against a query.
//
// Scoring is a lexical heuristic combining edit-distance proximity,
// keyword overlap, market and topic bonuses, and a small preference
// for rule-shaped sentences. The individual weights are tunable; what
// the rest of the system relies on is the relative ordering they
// produce: an exact market match always outranks a broad one, and a
// topic match always outranks a miss, all else equal.
package ranker

import (
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/sopsearch-cli/internal/classifier"
	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
	"github.com/custodia-labs/sopsearch-cli/internal/logger"
)

// Default scoring parameters.
const (
	// DefaultDistanceBase is subtracted from by the edit distance;
	// anything below zero clips to zero.
	DefaultDistanceBase = 70

	// DefaultPrefixLen bounds how much of the query and chunk feed
	// the edit-distance signal.
	DefaultPrefixLen = 80

	defaultOverlapWeight = 10
	defaultMarketExact   = 40
	defaultMarketBroad   = 15
	defaultTopicBonus    = 25
	defaultPunctBonus    = 5
	defaultKeywordBonus  = 5
)

// Ranker scores chunks against queries.
type Ranker struct {
	distanceBase  int
	prefixLen     int
	overlapWeight float64
	marketExact   float64
	marketBroad   float64
	topicBonus    float64
	punctBonus    float64
	keywordBonus  float64
}

// Option configures the ranker.
type Option func(*Ranker)

// WithDistanceBase sets the edit-distance score base.
func WithDistanceBase(base int) Option {
	return func(r *Ranker) {
		if base > 0 {
			r.distanceBase = base
		}
	}
}

// WithPrefixLen sets the prefix length for the distance signal.
func WithPrefixLen(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.prefixLen = n
		}
	}
}

// New creates a ranker with the given options.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		distanceBase:  DefaultDistanceBase,
		prefixLen:     DefaultPrefixLen,
		overlapWeight: defaultOverlapWeight,
		marketExact:   defaultMarketExact,
		marketBroad:   defaultMarketBroad,
		topicBonus:    defaultTopicBonus,
		punctBonus:    defaultPunctBonus,
		keywordBonus:  defaultKeywordBonus,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every chunk against the question and returns the list
// sorted by descending score. The sort is stable: ties keep the
// original corpus order, so results never depend on load order noise.
func (r *Ranker) Rank(question string, pref domain.MarketPreference, chunks []domain.KnowledgeChunk) []domain.RankedChunk {
	query := strings.ToLower(strings.TrimSpace(question))
	queryTokens := tokenize(query)
	queryTopic := classifier.ClassifyTopic("", question)
	wantMarket, haveMarket := pref.Market()

	logger.Debug("Ranker: query topic=%s, market pref=%s, corpus=%d chunks",
		queryTopic, pref, len(chunks))

	ranked := make([]domain.RankedChunk, len(chunks))
	for i, chunk := range chunks {
		score := r.proximity(query, chunk.Text)
		score += r.overlapWeight * float64(overlap(queryTokens, chunk.Text))

		switch {
		case haveMarket && chunk.Market == wantMarket:
			score += r.marketExact
		case !haveMarket || chunk.Market == domain.MarketAll:
			score += r.marketBroad
		}

		if chunk.Topic == queryTopic {
			score += r.topicBonus
		}

		score += r.ruleShape(chunk.Text)

		ranked[i] = domain.RankedChunk{Chunk: chunk, Score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// proximity scores lexical closeness between the query and a bounded
// prefix of the chunk text: max(0, base - editDistance).
func (r *Ranker) proximity(query, text string) float64 {
	q := prefix(query, r.prefixLen)
	t := prefix(strings.ToLower(text), r.prefixLen)
	d := editDistance(q, t)
	if d >= r.distanceBase {
		return 0
	}
	return float64(r.distanceBase - d)
}

// ruleShape adds small bonuses for actionable-looking text: terminal
// punctuation and policy keywords bias ranking toward complete rules
// over fragments.
func (r *Ranker) ruleShape(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	var bonus float64
	if strings.ContainsAny(trimmed[len(trimmed)-1:], ".!?") {
		bonus += r.punctBonus
	}

	tokens := tokenSet(strings.ToLower(trimmed))
	for _, kw := range policyKeywords {
		if tokens[kw] {
			bonus += r.keywordBonus
			break
		}
	}
	return bonus
}

// policyKeywords mark actionable policy statements.
var policyKeywords = []string{
	"must", "should", "required", "avoid", "use", "set", "add",
	"dimensions", "tax",
}

// tokenPattern matches alphanumeric runs.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// tokenize returns the lowercase alphanumeric tokens of s.
func tokenize(s string) []string {
	return tokenPattern.FindAllString(strings.ToLower(s), -1)
}

// tokenSet returns the tokens of s as a membership set.
func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokenize(s) {
		set[tok] = true
	}
	return set
}

// overlap counts query tokens that also appear as tokens in text.
func overlap(queryTokens []string, text string) int {
	if len(queryTokens) == 0 {
		return 0
	}
	textTokens := tokenSet(text)

	count := 0
	for _, tok := range queryTokens {
		if textTokens[tok] {
			count++
		}
	}
	return count
}

// prefix returns at most n runes of s.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// editDistance computes the Levenshtein distance between two strings
// using the two-row dynamic programming form.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
