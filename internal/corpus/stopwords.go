package corpus

import "fmt"

// StopWords is the fixed, validated set of words excluded from indexing and
// query processing. It is built once at server construction.
type StopWords map[string]struct{}

// NewStopWords validates and de-duplicates a collection of stop words.
func NewStopWords(words []string) (StopWords, error) {
	set := make(StopWords, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if !IsValidWord(w) {
			return nil, fmt.Errorf("stop word %q is invalid", w)
		}
		set[w] = struct{}{}
	}
	return set, nil
}

// NewStopWordsFromText splits a single whitespace-separated string into
// stop words, e.g. the "and with" form used throughout spec.md's examples.
func NewStopWordsFromText(text string) (StopWords, error) {
	return NewStopWords(Tokenize(text))
}

// Contains reports whether word is a stop word.
func (s StopWords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}
