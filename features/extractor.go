package features

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/strategit/core"
)

// maxKeywords caps the keyword list returned by Keywords.
const maxKeywords = 10

// Question-type keyword lists, checked in priority order.
var questionKeywords = []struct {
	qtype    core.QuestionType
	keywords []string
}{
	{core.QuestionFactual, []string{"what", "who", "where", "when"}},
	{core.QuestionReasoning, []string{"why", "how", "explain"}},
	{core.QuestionComparison, []string{"compare", "difference", "versus"}},
	{core.QuestionEnumeration, []string{"list", "enumerate", "name"}},
}

// Extractor turns raw query text into a QueryFeatures summary.
// Extraction is pure and total: it never fails, and degenerate input
// (empty string, punctuation only) yields zero-valued features.
type Extractor struct {
	entities EntityExtractor
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithEntityExtractor replaces the built-in capitalized-token heuristic
// with a caller-provided entity extractor, typically a real NER model.
// A nil extractor restores the default.
func WithEntityExtractor(e EntityExtractor) Option {
	return func(x *Extractor) error {
		if e == nil {
			e = HeuristicEntityExtractor{}
		}
		x.entities = e
		return nil
	}
}

// NewExtractor creates a feature extractor.
func NewExtractor(opts ...Option) (*Extractor, error) {
	x := &Extractor{entities: HeuristicEntityExtractor{}}
	for _, opt := range opts {
		if err := opt(x); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Extract computes the feature summary for a query.
func (x *Extractor) Extract(query string) core.QueryFeatures {
	lower := strings.ToLower(query)
	tokens := tokenize(query)

	return core.QueryFeatures{
		ComplexityScore:    complexityScore(query, lower, tokens),
		EntityCount:        len(x.entities.Extract(query)),
		TokenCount:         len(strings.Fields(query)),
		QuestionType:       classify(lower),
		TemporalIndicators: countTemporal(tokens),
		SemanticDensity:    semanticDensity(tokens),
		AmbiguityScore:     ambiguityScore(lower),
	}
}

// Entities returns the entity strings found in the query, using whichever
// entity extractor the Extractor was configured with.
func (x *Extractor) Entities(query string) []string {
	return x.entities.Extract(query)
}

// Keywords returns up to maxKeywords content words from the query:
// lowercased, punctuation-trimmed, stop words and short tokens removed.
func (x *Extractor) Keywords(query string) []string {
	tokens := tokenize(query)
	keywords := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) > 2 && !stopWords[t] {
			keywords = append(keywords, t)
			if len(keywords) == maxKeywords {
				break
			}
		}
	}
	return keywords
}

// complexityScore blends three signals: normalized length (40%), complexity
// keyword hits (40%), and syntactic structure (20%). Clamped to [0,1].
func complexityScore(query, lower string, tokens []string) float64 {
	lengthScore := math.Min(float64(len(tokens))/50.0, 1.0)

	var keywordScore float64
	for _, words := range complexityIndicators {
		for _, w := range words {
			if strings.Contains(lower, w) {
				keywordScore += 0.1
			}
		}
	}

	var syntaxScore float64
	if strings.Contains(query, "?") {
		syntaxScore += 0.1
	}
	if containsWord(tokens, "and") || containsWord(tokens, "or") || containsWord(tokens, "but") {
		syntaxScore += 0.2
	}

	score := lengthScore*0.4 + keywordScore*0.4 + syntaxScore*0.2
	return math.Min(score, 1.0)
}

func semanticDensity(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	content := 0
	for _, t := range tokens {
		if !stopWords[t] {
			content++
		}
	}
	return float64(content) / float64(len(tokens))
}

func ambiguityScore(lower string) float64 {
	count := 0
	for _, w := range ambiguousWords {
		if strings.Contains(lower, w) {
			count++
		}
	}
	return math.Min(float64(count)/10.0, 1.0)
}

func classify(lower string) core.QuestionType {
	for _, group := range questionKeywords {
		for _, w := range group.keywords {
			if strings.Contains(lower, w) {
				return group.qtype
			}
		}
	}
	return core.QuestionGeneral
}

func countTemporal(tokens []string) int {
	count := 0
	for _, t := range tokens {
		for _, w := range complexityIndicators["temporal"] {
			if t == w {
				count++
				break
			}
		}
	}
	return count
}

// indicatorWord reports whether the lowercased token belongs to a complexity
// category or question-type keyword list. The entity heuristic uses it to keep
// leading imperatives like "Compare" from counting as entities.
func indicatorWord(token string) bool {
	for _, words := range complexityIndicators {
		for _, w := range words {
			if token == w {
				return true
			}
		}
	}
	for _, group := range questionKeywords {
		for _, w := range group.keywords {
			if token == w {
				return true
			}
		}
	}
	return false
}

func isCapitalized(token string) bool {
	r, size := utf8.DecodeRuneInString(token)
	return size > 0 && unicode.IsUpper(r)
}
