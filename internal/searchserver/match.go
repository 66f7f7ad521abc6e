package searchserver

import (
	"context"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kestrelsearch/searchserver/internal/queryparse"
)

// MatchDocument parses raw and reports which of its plus words occur in
// document id, in ascending order. If any minus word of the query occurs in
// id, it returns no matched words at all (short-circuit), but still reports
// id's status. id must be a live document id.
func (s *Server) MatchDocument(raw string, id int) ([]string, Status, error) {
	return s.matchDocument(raw, id, Sequential)
}

// MatchDocumentParallel is MatchDocument's data-parallel variant.
func (s *Server) MatchDocumentParallel(raw string, id int) ([]string, Status, error) {
	return s.matchDocument(raw, id, Parallel)
}

func (s *Server) matchDocument(raw string, id int, policy Policy) ([]string, Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, known := s.meta[id]
	if !known {
		return nil, 0, idError(ErrUnknownDocumentID, id)
	}

	var query queryparse.Query
	var err error
	if policy == Parallel {
		query, err = queryparse.ParseParallel(raw, s.isStopWord)
	} else {
		query, err = queryparse.Parse(raw, s.isStopWord)
	}
	if err != nil {
		return nil, 0, err
	}

	forward := s.docToWordFreqs[id]

	if policy == Parallel {
		if s.anyMinusPresentParallel(query.SortedMinus(), forward) {
			return nil, m.status, nil
		}
		return s.matchedPlusParallel(query.SortedPlus(), forward), m.status, nil
	}

	for word := range query.Minus {
		if _, present := forward[word]; present {
			return nil, m.status, nil
		}
	}
	matched := make([]string, 0, len(query.Plus))
	for word := range query.Plus {
		if _, present := forward[word]; present {
			matched = append(matched, word)
		}
	}
	sort.Strings(matched)
	return matched, m.status, nil
}

func (s *Server) anyMinusPresentParallel(words []string, forward map[string]float64) bool {
	if len(words) == 0 {
		return false
	}
	var found int32
	g, _ := errgroup.WithContext(context.Background())
	for _, word := range words {
		word := word
		g.Go(func() error {
			if _, present := forward[word]; present {
				atomic.StoreInt32(&found, 1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return atomic.LoadInt32(&found) == 1
}

func (s *Server) matchedPlusParallel(words []string, forward map[string]float64) []string {
	if len(words) == 0 {
		return nil
	}
	results := make([]string, len(words))
	var wg errgroup.Group
	for i, word := range words {
		i, word := i, word
		wg.Go(func() error {
			if _, present := forward[word]; present {
				results[i] = word
			}
			return nil
		})
	}
	_ = wg.Wait()

	matched := make([]string, 0, len(results))
	for _, w := range results {
		if w != "" {
			matched = append(matched, w)
		}
	}
	sort.Strings(matched)
	return matched
}
