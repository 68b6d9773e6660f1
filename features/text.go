package features

import "strings"

// Stop words filtered out when computing semantic density and keywords
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "or": true,
	"in": true, "that": true, "have": true, "it": true, "for": true, "not": true,
	"on": true, "at": true, "this": true, "but": true, "by": true, "from": true,
	"with": true, "as": true, "you": true, "do": true,
	"what": true, "who": true, "when": true, "where": true, "why": true, "how": true,
}

// Keyword categories that indicate query complexity. Phrase entries are
// matched by substring, single words by token presence.
var complexityIndicators = map[string][]string{
	"comparison": {"compare", "versus", "difference", "better", "worse"},
	"reasoning":  {"why", "how", "explain", "analyze", "evaluate"},
	"temporal":   {"when", "before", "after", "during", "since"},
	"compound":   {"not only", "but also", "on the other hand"},
}

// Words that usually stand in for an unresolved referent.
var ambiguousWords = []string{"it", "this", "that", "they", "them", "thing", "stuff"}

// Tokenize splits text into lowercase words with surrounding punctuation
// trimmed. Empty tokens are dropped.
func Tokenize(text string) []string {
	return tokenize(text)
}

// tokenize splits text into lowercase words with surrounding punctuation
// trimmed. Empty tokens are dropped.
func tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

// trimToken strips surrounding punctuation without lowercasing.
func trimToken(word string) string {
	return strings.Trim(word, ".,!?;:'\"-()[]{}")
}

func containsWord(tokens []string, word string) bool {
	for _, t := range tokens {
		if t == word {
			return true
		}
	}
	return false
}
