package searchserver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RemoveDocument removes id, if present. It is idempotent: removing an
// already-absent id is a no-op.
func (s *Server) RemoveDocument(id int) {
	s.removeDocument(id, Sequential)
}

// RemoveDocumentParallel is RemoveDocument's data-parallel variant: the
// per-word erasure from the inverted index is fanned out across id's
// forward-posting words. Final state is identical to the sequential path.
func (s *Server) RemoveDocumentParallel(id int) {
	s.removeDocument(id, Parallel)
}

func (s *Server) removeDocument(id int, policy Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeDocumentLocked(id, policy)
}

func (s *Server) removeDocumentLocked(id int, policy Policy) {
	if !s.liveIDs.Contains(uint32(id)) {
		return
	}

	forward := s.docToWordFreqs[id]
	words := make([]string, 0, len(forward))
	for w := range forward {
		words = append(words, w)
	}

	if policy == Parallel && len(words) > 0 {
		// Each goroutine deletes from the distinct inner postings map of
		// its own word, never touching another word's map — safe without
		// synchronization. Deleting the now-possibly-empty outer key is
		// deferred to a sequential pass below: concurrent deletes on the
		// same outer map would race.
		g, _ := errgroup.WithContext(context.Background())
		for _, w := range words {
			w := w
			g.Go(func() error {
				delete(s.wordToDocFreqs[w], id)
				return nil
			})
		}
		_ = g.Wait()
		for _, w := range words {
			if len(s.wordToDocFreqs[w]) == 0 {
				delete(s.wordToDocFreqs, w)
			}
		}
	} else {
		for _, w := range words {
			s.eraseFromInverted(w, id)
		}
	}

	delete(s.docToWordFreqs, id)
	delete(s.meta, id)
	s.liveIDs.Remove(uint32(id))
	s.store.Delete(id)
}

// eraseFromInverted removes id's posting entry under word, dropping the
// word's entry entirely once its postings are empty.
func (s *Server) eraseFromInverted(word string, id int) {
	postings := s.wordToDocFreqs[word]
	delete(postings, id)
	if len(postings) == 0 {
		delete(s.wordToDocFreqs, word)
	}
}
