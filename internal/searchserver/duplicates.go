package searchserver

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// RemoveDuplicates finds every document whose set of distinct words equals
// an earlier (smaller-id) document's, removes the larger-id duplicate, and
// writes "Found duplicate document id <id>" to sink for each one removed
// (spec.md §4.8, §6's exact wire format). It returns the removed ids in the
// order they were found (ascending, since live ids are visited ascending).
//
// A single ascending pass over live ids suffices: the first id to present a
// given word-set is kept, and every later id with the same word-set is a
// duplicate of it — so "larger id removed" falls out of visiting order,
// with no need to track a running "last item" the way the original's
// undefined-behavior dereference-of-end() attempted to.
func RemoveDuplicates(s *Server, sink io.Writer) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]int)
	var duplicates []int

	for _, id := range s.idsLocked() {
		key := wordSetKey(s.docToWordFreqs[id])
		if _, exists := seen[key]; exists {
			duplicates = append(duplicates, id)
			continue
		}
		seen[key] = id
	}

	for _, id := range duplicates {
		fmt.Fprintf(sink, "Found duplicate document id %d\n", id)
		s.removeDocumentLocked(id, Sequential)
	}
	return duplicates
}

func wordSetKey(forward map[string]float64) string {
	words := make([]string, 0, len(forward))
	for w := range forward {
		words = append(words, w)
	}
	sort.Strings(words)
	return strings.Join(words, "\x00")
}
