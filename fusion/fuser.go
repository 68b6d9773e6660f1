package fusion

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/strategit/core"
	"github.com/poiesic/strategit/features"
	"github.com/poiesic/strategit/retrieval"
)

// typePatterns holds small keyword lists whose presence in a passage
// suggests it matches the shape of answer a question type expects.
var typePatterns = map[core.QuestionType][]string{
	core.QuestionFactual:     {"is", "was", "are", "were", "located", "founded", "named"},
	core.QuestionReasoning:   {"because", "therefore", "causes", "due", "result", "leads"},
	core.QuestionComparison:  {"than", "versus", "compared", "difference", "better", "whereas"},
	core.QuestionEnumeration: {"include", "includes", "list", "several", "many", "following"},
}

// temporalPatterns supplements the type list when the query carries
// temporal indicators.
var temporalPatterns = []string{"year", "date", "before", "after", "during", "since", "until"}

// Input carries everything one fusion call needs. Weights decide which
// backends run; Features, Keywords and Entities come from the extractor
// and drive rescoring and sizing.
type Input struct {
	Query      string
	Features   core.QueryFeatures
	Weights    core.WeightVector
	Backends   map[core.Backend]retrieval.Backend
	TopK       int
	SubQueries []string
	Keywords   []string
	Entities   []string
}

// Fuser merges passages from multiple backends into a single ranked,
// deduplicated, diversity-balanced result set.
type Fuser struct {
	config Config
	logger *slog.Logger
}

// Option configures a Fuser.
type Option func(*Fuser) error

// WithConfig overrides the default pipeline tuning. Zero fields keep
// their defaults.
func WithConfig(cfg Config) Option {
	return func(f *Fuser) error {
		f.config = cfg.withDefaults()
		return nil
	}
}

// WithLogger sets the logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fuser) error {
		f.logger = logger
		return nil
	}
}

// New creates a Fuser with the default configuration.
func New(opts ...Option) (*Fuser, error) {
	f := &Fuser{config: DefaultConfig()}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	f.logger = f.logger.With("component", "fusion")
	return f, nil
}

// Config returns the active pipeline tuning.
func (f *Fuser) Config() Config {
	return f.config
}

// Fuse runs the full pipeline: gather from weighted backends, merge by
// the configured method, deduplicate, rescore, balance for diversity and
// trim to the dynamic target size. Backend failures degrade to empty
// contributions; Fuse itself never fails on them.
func (f *Fuser) Fuse(ctx context.Context, input Input) ([]core.RetrievedPassage, error) {
	target := f.targetSize(input)

	groups := f.gather(ctx, input, target)
	if len(groups) == 0 {
		return nil, nil
	}

	var merged []core.RetrievedPassage
	switch f.config.Method {
	case MethodRRF:
		merged = f.rankFuse(groups)
	default:
		merged = f.weightedSum(groups, input.Weights)
	}

	merged = f.dedup(merged)
	f.rescore(merged, input)
	slices.SortStableFunc(merged, func(a, b core.RetrievedPassage) int {
		switch {
		case a.FinalScore > b.FinalScore:
			return -1
		case a.FinalScore < b.FinalScore:
			return 1
		}
		return 0
	})
	merged = f.diversify(merged)

	if len(merged) > target {
		merged = merged[:target]
	}
	return merged, nil
}

// targetSize adjusts the requested result count by query complexity and
// decomposition.
func (f *Fuser) targetSize(input Input) int {
	target := input.TopK
	if target <= 0 {
		target = f.config.BaseResults
	}
	switch input.Features.Complexity() {
	case core.ComplexityComplex:
		target += 3
	case core.ComplexitySimple:
		target -= 2
	}
	if len(input.SubQueries) > 2 {
		target += 2
	}
	if target > f.config.MaxResults {
		target = f.config.MaxResults
	}
	if target < f.config.MinResults {
		target = f.config.MinResults
	}
	return target
}

// gather queries every backend with a positive weight, in canonical
// order. A failing backend contributes nothing.
func (f *Fuser) gather(ctx context.Context, input Input, topK int) map[core.Backend][]core.RetrievedPassage {
	groups := make(map[core.Backend][]core.RetrievedPassage)
	for _, name := range core.Backends {
		if input.Weights[name] <= 0 {
			continue
		}
		backend, ok := input.Backends[name]
		if !ok {
			continue
		}
		passages, err := backend.Search(ctx, input.Query, topK)
		if err != nil {
			f.logger.Warn("backend search failed", "backend", name, "error", err)
			continue
		}
		for i := range passages {
			passages[i].Backend = name
		}
		groups[name] = passages
	}
	return groups
}

// weightedSum scales each passage's raw score by its backend weight and
// sorts the combined pool.
func (f *Fuser) weightedSum(groups map[core.Backend][]core.RetrievedPassage, weights core.WeightVector) []core.RetrievedPassage {
	var merged []core.RetrievedPassage
	for _, name := range core.Backends {
		for _, p := range groups[name] {
			p.CombinedScore = p.RawScore * weights[name]
			merged = append(merged, p)
		}
	}
	slices.SortStableFunc(merged, func(a, b core.RetrievedPassage) int {
		switch {
		case a.CombinedScore > b.CombinedScore:
			return -1
		case a.CombinedScore < b.CombinedScore:
			return 1
		}
		return 0
	})
	return merged
}

// rankFuse applies reciprocal rank fusion: each backend contributes
// 1/(rank+k) per passage, summed across backends for passages with the
// same content.
func (f *Fuser) rankFuse(groups map[core.Backend][]core.RetrievedPassage) []core.RetrievedPassage {
	scores := make(map[string]float64)
	first := make(map[string]core.RetrievedPassage)
	var order []string
	for _, name := range core.Backends {
		group := groups[name]
		ranked := slices.Clone(group)
		slices.SortStableFunc(ranked, func(a, b core.RetrievedPassage) int {
			switch {
			case a.RawScore > b.RawScore:
				return -1
			case a.RawScore < b.RawScore:
				return 1
			}
			return 0
		})
		for rank, p := range ranked {
			key := contentKey(p)
			scores[key] += 1.0 / float64(rank+1+f.config.RRFK)
			if _, seen := first[key]; !seen {
				first[key] = p
				order = append(order, key)
			}
		}
	}

	merged := make([]core.RetrievedPassage, 0, len(order))
	for _, key := range order {
		p := first[key]
		p.CombinedScore = scores[key]
		merged = append(merged, p)
	}
	slices.SortStableFunc(merged, func(a, b core.RetrievedPassage) int {
		switch {
		case a.CombinedScore > b.CombinedScore:
			return -1
		case a.CombinedScore < b.CombinedScore:
			return 1
		}
		return 0
	})
	return merged
}

// dedup removes near-duplicates. Input must already be sorted by
// combined score descending, so the first of a duplicate pair is the one
// kept. After this pass no two passages exceed the threshold.
func (f *Fuser) dedup(passages []core.RetrievedPassage) []core.RetrievedPassage {
	kept := make([]core.RetrievedPassage, 0, len(passages))
	keptTokens := make([]map[string]struct{}, 0, len(passages))
	for _, p := range passages {
		tokens := tokenSet(p.Content)
		duplicate := false
		for _, existing := range keptTokens {
			if jaccard(tokens, existing) > f.config.DedupThreshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		kept = append(kept, p)
		keptTokens = append(keptTokens, tokens)
	}
	return kept
}

// rescore assigns RelevanceScore and FinalScore from the blend of query
// overlap, entity and keyword coverage and question-type patterns.
func (f *Fuser) rescore(passages []core.RetrievedPassage, input Input) {
	queryTokens := tokenSet(input.Query)
	for i := range passages {
		p := &passages[i]
		contentTokens := tokenSet(p.Content)

		relevance := overlapFraction(queryTokens, contentTokens)
		entity := coverageFraction(input.Entities, contentTokens)
		keyword := coverageFraction(input.Keywords, contentTokens)
		pattern := f.patternScore(contentTokens, input.Features)

		p.RelevanceScore = relevance
		p.FinalScore = f.config.RelevanceWeight*relevance +
			f.config.EntityWeight*entity +
			f.config.KeywordWeight*keyword +
			f.config.PatternWeight*pattern
	}
}

// patternScore checks the passage against the question type's pattern
// list, and the temporal list when the query had temporal indicators.
// It returns the fraction of applicable lists with at least one hit.
func (f *Fuser) patternScore(contentTokens map[string]struct{}, feats core.QueryFeatures) float64 {
	var lists [][]string
	if patterns, ok := typePatterns[feats.QuestionType]; ok {
		lists = append(lists, patterns)
	}
	if feats.TemporalIndicators > 0 {
		lists = append(lists, temporalPatterns)
	}
	if len(lists) == 0 {
		return 0
	}
	matched := 0
	for _, list := range lists {
		for _, word := range list {
			if _, ok := contentTokens[word]; ok {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(lists))
}

// diversify greedily accepts passages whose content stays below the
// diversity threshold against everything already accepted. The top few
// are accepted unconditionally. Input must be sorted by final score
// descending.
func (f *Fuser) diversify(passages []core.RetrievedPassage) []core.RetrievedPassage {
	kept := make([]core.RetrievedPassage, 0, len(passages))
	keptTokens := make([]map[string]struct{}, 0, len(passages))
	for _, p := range passages {
		tokens := tokenSet(p.Content)
		if len(kept) >= f.config.DiversityGuaranteed {
			diverse := true
			maxSim := 0.0
			for _, existing := range keptTokens {
				sim := jaccard(tokens, existing)
				if sim > maxSim {
					maxSim = sim
				}
				if sim >= f.config.DiversityThreshold {
					diverse = false
					break
				}
			}
			if !diverse {
				continue
			}
			p.DiversityScore = 1 - maxSim
		} else {
			p.DiversityScore = 1
		}
		kept = append(kept, p)
		keptTokens = append(keptTokens, tokens)
	}
	return kept
}

// contentKey identifies a passage across backends for rank fusion.
func contentKey(p core.RetrievedPassage) string {
	return strings.ToLower(strings.TrimSpace(p.Content))
}

func tokenSet(text string) map[string]struct{} {
	tokens := features.Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// jaccard computes token-set Jaccard similarity. Two empty sets count
// as identical.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// overlapFraction returns the fraction of query tokens present in the
// passage.
func overlapFraction(query, content map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for t := range query {
		if _, ok := content[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

// coverageFraction returns the fraction of terms whose lowercased form
// appears in the passage tokens.
func coverageFraction(terms []string, content map[string]struct{}) float64 {
	if len(terms) == 0 {
		return 0
	}
	hits := 0
	for _, term := range terms {
		if _, ok := content[strings.ToLower(term)]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}
