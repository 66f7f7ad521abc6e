package searchserver

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/kestrelsearch/searchserver/internal/queryparse"
	"github.com/kestrelsearch/searchserver/internal/shardmap"
)

func logNOverDF(n uint64, df int) float64 {
	return math.Log(float64(n) / float64(df))
}

// FindTopDocuments scores raw against the default predicate (status ==
// ACTUAL), sequentially.
func (s *Server) FindTopDocuments(raw string) ([]Result, error) {
	return s.find(raw, DefaultPredicate(), Sequential)
}

// FindTopDocumentsByStatus scores raw against documents with exactly
// status, sequentially.
func (s *Server) FindTopDocumentsByStatus(raw string, status Status) ([]Result, error) {
	return s.find(raw, ByStatus(status), Sequential)
}

// FindTopDocumentsPredicate scores raw against an arbitrary predicate,
// sequentially.
func (s *Server) FindTopDocumentsPredicate(raw string, predicate Predicate) ([]Result, error) {
	return s.find(raw, predicate, Sequential)
}

// FindTopDocumentsParallel is FindTopDocuments's data-parallel variant: the
// plus-word and minus-word passes each iterate words concurrently.
func (s *Server) FindTopDocumentsParallel(raw string) ([]Result, error) {
	return s.find(raw, DefaultPredicate(), Parallel)
}

// FindTopDocumentsByStatusParallel is FindTopDocumentsByStatus's
// data-parallel variant.
func (s *Server) FindTopDocumentsByStatusParallel(raw string, status Status) ([]Result, error) {
	return s.find(raw, ByStatus(status), Parallel)
}

// FindTopDocumentsPredicateParallel is FindTopDocumentsPredicate's
// data-parallel variant.
func (s *Server) FindTopDocumentsPredicateParallel(raw string, predicate Predicate) ([]Result, error) {
	return s.find(raw, predicate, Parallel)
}

func (s *Server) find(raw string, predicate Predicate, policy Policy) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var query queryparse.Query
	var err error
	if policy == Parallel {
		query, err = queryparse.ParseParallel(raw, s.isStopWord)
	} else {
		query, err = queryparse.Parse(raw, s.isStopWord)
	}
	if err != nil {
		return nil, err
	}

	results, err := s.findAllDocuments(query, predicate, policy)
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if math.Abs(results[i].Relevance-results[j].Relevance) < RelevanceEpsilon {
			return results[i].Rating > results[j].Rating
		}
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > MaxResultDocumentCount {
		results = results[:MaxResultDocumentCount]
	}
	return results, nil
}

// findAllDocuments implements §4.6 steps 1-4: accumulate TF·IDF over
// plus-words filtered by predicate, subtract every doc touched by a
// minus-word, then flatten. Caller holds s.mu for read.
func (s *Server) findAllDocuments(query queryparse.Query, predicate Predicate, policy Policy) ([]Result, error) {
	acc := shardmap.New[float64](s.shardCount)

	plusWords := query.SortedPlus()
	minusWords := query.SortedMinus()

	if policy == Parallel {
		if err := s.accumulatePlusParallel(acc, plusWords, predicate); err != nil {
			return nil, err
		}
		s.subtractMinusParallel(acc, minusWords)
	} else {
		s.accumulatePlusSequential(acc, plusWords, predicate)
		s.subtractMinusSequential(acc, minusWords)
	}

	flat := acc.Build()
	results := make([]Result, 0, len(flat))
	for id, relevance := range flat {
		results = append(results, Result{ID: id, Relevance: relevance, Rating: s.meta[id].rating})
	}
	return results, nil
}

func (s *Server) accumulatePlusSequential(acc *shardmap.ShardedMap[float64], words []string, predicate Predicate) {
	for _, word := range words {
		postings, ok := s.wordToDocFreqs[word]
		if !ok {
			continue
		}
		idf := s.computeIDF(word)
		for id, tf := range postings {
			m := s.meta[id]
			if predicate(id, m.status, m.rating) {
				shardmap.AddFloat64(acc, id, tf*idf)
			}
		}
	}
}

func (s *Server) subtractMinusSequential(acc *shardmap.ShardedMap[float64], words []string) {
	for _, word := range words {
		postings, ok := s.wordToDocFreqs[word]
		if !ok {
			continue
		}
		for id := range postings {
			acc.Erase(id)
		}
	}
}

func (s *Server) accumulatePlusParallel(acc *shardmap.ShardedMap[float64], words []string, predicate Predicate) error {
	g, _ := errgroup.WithContext(context.Background())
	for _, word := range words {
		word := word
		g.Go(func() error {
			postings, ok := s.wordToDocFreqs[word]
			if !ok {
				return nil
			}
			idf := s.computeIDF(word)
			for id, tf := range postings {
				m := s.meta[id]
				if predicate(id, m.status, m.rating) {
					shardmap.AddFloat64(acc, id, tf*idf)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Server) subtractMinusParallel(acc *shardmap.ShardedMap[float64], words []string) {
	g, _ := errgroup.WithContext(context.Background())
	for _, word := range words {
		word := word
		g.Go(func() error {
			postings, ok := s.wordToDocFreqs[word]
			if !ok {
				return nil
			}
			for id := range postings {
				acc.Erase(id)
			}
			return nil
		})
	}
	_ = g.Wait()
}
