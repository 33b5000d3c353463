package kb

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// Common Vietnamese function words, stored in their diacritic-stripped form
// because filtering runs after StripDiacritics.
var defaultStopWords = []string{
	"la", "gi", "bao", "nhieu", "co", "khong", "cho", "toi", "minh", "ban",
	"em", "anh", "chi", "voi", "va", "the", "nay", "duoc",
}

// DefaultStopWords returns a copy of the built-in stop-word list.
func DefaultStopWords() []string {
	out := make([]string, len(defaultStopWords))
	copy(out, defaultStopWords)
	return out
}

// Tokenizer splits text into normalized, diacritic-stripped word tokens,
// dropping tokens shorter than 2 characters and the configured stop words.
type Tokenizer struct {
	stop map[string]struct{}
}

// NewTokenizer builds a tokenizer with the given stop-word list. A nil or
// empty list selects the defaults.
func NewTokenizer(stopWords []string) *Tokenizer {
	if len(stopWords) == 0 {
		stopWords = defaultStopWords
	}

	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[StripDiacritics(Normalize(w))] = struct{}{}
	}

	return &Tokenizer{stop: stop}
}

// Tokenize returns the token sequence for s in source order. Identical input
// always yields identical output.
func (t *Tokenizer) Tokenize(s string) []string {
	cleaned := nonAlnum.ReplaceAllString(StripDiacritics(Normalize(s)), " ")

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) < 2 {
			continue
		}
		if _, ok := t.stop[tok]; ok {
			continue
		}

		tokens = append(tokens, tok)
	}

	return tokens
}
