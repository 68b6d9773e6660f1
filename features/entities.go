package features

import "strings"

// EntityExtractor finds named entities in query text.
// Implementations must be safe for concurrent use.
//
// The built-in HeuristicEntityExtractor is a deliberate placeholder:
// callers with a real NER model plug it in via WithEntityExtractor.
type EntityExtractor interface {
	// Extract returns the entity strings found in the query.
	// Implementations return an empty slice, never nil semantics errors,
	// for queries with no entities.
	Extract(query string) []string
}

// HeuristicEntityExtractor counts capitalized multi-character tokens as
// entities, skipping stop words and question/complexity indicator words so
// that sentence-leading words like "What" or "Compare" do not count.
type HeuristicEntityExtractor struct{}

// Extract implements EntityExtractor.
func (HeuristicEntityExtractor) Extract(query string) []string {
	words := strings.Fields(query)
	entities := make([]string, 0, len(words))
	for _, word := range words {
		token := trimToken(word)
		if len(token) < 2 || !isCapitalized(token) {
			continue
		}
		lower := strings.ToLower(token)
		if stopWords[lower] || indicatorWord(lower) {
			continue
		}
		entities = append(entities, token)
	}
	return entities
}
