package searchserver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ProcessQueries runs one FindTopDocuments call per query, in the given
// order. In Parallel mode the per-query calls run concurrently; the output
// slice always preserves input order (§4.7, §5).
func ProcessQueries(s *Server, queries []string, policy Policy) ([][]Result, error) {
	results := make([][]Result, len(queries))

	if policy != Parallel {
		for i, q := range queries {
			r, err := s.FindTopDocuments(q)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	g, _ := errgroup.WithContext(context.Background())
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			r, err := s.FindTopDocumentsParallel(q)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ProcessQueriesJoined is ProcessQueries flattened into one slice,
// preserving per-query order and the original query order. Capacity is
// pre-reserved using a reduction over per-query result counts, matching the
// original's transform_reduce-based reservation.
func ProcessQueriesJoined(s *Server, queries []string, policy Policy) ([]Result, error) {
	perQuery, err := ProcessQueries(s, queries, policy)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, r := range perQuery {
		total += len(r)
	}

	flat := make([]Result, 0, total)
	for _, r := range perQuery {
		flat = append(flat, r...)
	}
	return flat, nil
}
