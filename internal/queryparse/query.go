// Package queryparse turns a raw query string into de-duplicated plus/minus
// word sets, per spec.md §4.3.
package queryparse

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/kestrelsearch/searchserver/internal/corpus"
)

// Query is a parsed search query: the words that must occur (Plus) and the
// words that must not occur (Minus) in a matching document. Both sets are
// de-duplicated and unordered; use SortedPlus/SortedMinus for deterministic
// output.
type Query struct {
	Plus  map[string]struct{}
	Minus map[string]struct{}
}

func newQuery() Query {
	return Query{Plus: make(map[string]struct{}), Minus: make(map[string]struct{})}
}

// SortedPlus returns the plus words in ascending order.
func (q Query) SortedPlus() []string { return sortedKeys(q.Plus) }

// SortedMinus returns the minus words in ascending order.
func (q Query) SortedMinus() []string { return sortedKeys(q.Minus) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for w := range m {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// InvalidWordError reports that a query word failed validation.
type InvalidWordError struct {
	Word string
}

func (e *InvalidWordError) Error() string {
	return fmt.Sprintf("query word %q is invalid", e.Word)
}

type queryWord struct {
	data    string
	isMinus bool
}

// parseWord validates a single raw token and classifies it as plus or
// minus. A lone "-" or a leading "--" is rejected, as is an empty word
// after stripping a leading minus.
func parseWord(text string) (queryWord, error) {
	if text == "" {
		return queryWord{}, &InvalidWordError{Word: text}
	}
	word := text
	isMinus := false
	if word[0] == '-' {
		isMinus = true
		word = word[1:]
	}
	if word == "" || word[0] == '-' || !corpus.IsValidWord(word) {
		return queryWord{}, &InvalidWordError{Word: text}
	}
	return queryWord{data: word, isMinus: isMinus}, nil
}

// Parse parses raw sequentially: split into words, validate and classify
// each, drop stop words, and return the de-duplicated plus/minus sets.
func Parse(raw string, isStopWord func(string) bool) (Query, error) {
	result := newQuery()
	for _, w := range corpus.Tokenize(raw) {
		qw, err := parseWord(w)
		if err != nil {
			return Query{}, err
		}
		if isStopWord(qw.data) {
			continue
		}
		if qw.isMinus {
			result.Minus[qw.data] = struct{}{}
		} else {
			result.Plus[qw.data] = struct{}{}
		}
	}
	return result, nil
}

// ParseParallel is Parse's parallel variant: raw is tokenized once, then
// per-word validation and plus/minus classification are fanned out across
// up to GOMAXPROCS chunks; stop-word filtering and set construction happen
// sequentially afterwards the same way as in Parse, so the two always agree
// (per spec.md §4.3, "they produce equal sets").
func ParseParallel(raw string, isStopWord func(string) bool) (Query, error) {
	tokens := corpus.Tokenize(raw)
	if len(tokens) == 0 {
		return newQuery(), nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(tokens) {
		workers = len(tokens)
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (len(tokens) + workers - 1) / workers

	parsed := make([]queryWord, len(tokens))
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= len(tokens) {
			break
		}
		if end > len(tokens) {
			end = len(tokens)
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				qw, err := parseWord(tokens[i])
				if err != nil {
					errs[w] = err
					return
				}
				parsed[i] = qw
			}
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Query{}, err
		}
	}

	result := newQuery()
	for _, qw := range parsed {
		if isStopWord(qw.data) {
			continue
		}
		if qw.isMinus {
			result.Minus[qw.data] = struct{}{}
		} else {
			result.Plus[qw.data] = struct{}{}
		}
	}
	return result, nil
}
