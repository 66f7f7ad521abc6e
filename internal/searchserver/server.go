package searchserver

import (
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/kestrelsearch/searchserver/internal/corpus"
)

// Server owns every index structure and the backing text store. It is safe
// for concurrent query operations (FindTopDocuments*, MatchDocument*,
// GetWordFrequencies, DocumentCount, IterateIDs); mutations (AddDocument,
// RemoveDocument*, RemoveDuplicates) take an exclusive lock. Spec.md §5
// notes the core itself does not require this discipline — callers may
// schedule mutations outside the query window instead — but holding an
// internal RW-lock here is purely additive safety and does not change
// observable behavior.
type Server struct {
	mu sync.RWMutex

	store     *corpus.Store
	stopWords corpus.StopWords

	// wordToDocFreqs[word][docID] = tf(word, docID) — the inverted posting.
	wordToDocFreqs map[string]map[int]float64
	// docToWordFreqs[docID][word] = tf(word, docID) — the forward posting,
	// mirroring wordToDocFreqs exactly (spec.md §3 index-symmetry invariant).
	docToWordFreqs map[int]map[string]float64
	meta           map[int]docMeta
	liveIDs        *roaring.Bitmap

	// shardCount sizes every accumulator this server allocates for scoring.
	shardCount int
}

// Option configures a Server at construction.
type Option func(*Server)

// WithShardCount overrides the accumulator shard count used during scoring
// (default 997, a prime comfortably above typical GOMAXPROCS so concurrent
// writers rarely collide on a shard).
func WithShardCount(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

const defaultShardCount = 997

func newServer(stopWords corpus.StopWords, opts ...Option) *Server {
	s := &Server{
		store:          corpus.NewStore(),
		stopWords:      stopWords,
		wordToDocFreqs: make(map[string]map[int]float64),
		docToWordFreqs: make(map[int]map[string]float64),
		meta:           make(map[int]docMeta),
		liveIDs:        roaring.New(),
		shardCount:     defaultShardCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New constructs a Server from a single whitespace-separated stop-word
// string, e.g. New("and with").
func New(stopWordsText string, opts ...Option) (*Server, error) {
	sw, err := corpus.NewStopWordsFromText(stopWordsText)
	if err != nil {
		return nil, err
	}
	return newServer(sw, opts...), nil
}

// NewFromWords constructs a Server from an explicit stop-word collection.
func NewFromWords(stopWords []string, opts ...Option) (*Server, error) {
	sw, err := corpus.NewStopWords(stopWords)
	if err != nil {
		return nil, err
	}
	return newServer(sw, opts...), nil
}

func (s *Server) isStopWord(word string) bool {
	return s.stopWords.Contains(word)
}

// AddDocument indexes a new document. It fails wholesale (no partial
// mutation) if id is negative, id already exists, any token is invalid, or
// the document has no surviving non-stop token.
func (s *Server) AddDocument(id int, text string, status Status, ratings []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 0 {
		return idError(ErrInvalidDocumentID, id)
	}
	if _, exists := s.meta[id]; exists {
		return idError(ErrDuplicateDocumentID, id)
	}

	rawWords := corpus.Tokenize(text)
	words := make([]string, 0, len(rawWords))
	for _, w := range rawWords {
		if !corpus.IsValidWord(w) {
			return &InvalidWordError{Word: w}
		}
		if s.isStopWord(w) {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return ErrEmptyDocument
	}

	s.store.Put(id, text)

	invCount := 1.0 / float64(len(words))
	forward := make(map[string]float64, len(words))
	for _, w := range words {
		forward[w] += invCount
	}
	for w, tf := range forward {
		if s.wordToDocFreqs[w] == nil {
			s.wordToDocFreqs[w] = make(map[int]float64)
		}
		s.wordToDocFreqs[w][id] = tf
	}
	s.docToWordFreqs[id] = forward
	s.meta[id] = docMeta{rating: ComputeAverageRating(ratings), status: status}
	s.liveIDs.Add(uint32(id))
	return nil
}

// GetWordFrequencies returns the forward posting of id, or an empty map if
// id is unknown (non-fatal per §7 kind 4).
func (s *Server) GetWordFrequencies(id int) map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	freqs, ok := s.docToWordFreqs[id]
	if !ok {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(freqs))
	for w, tf := range freqs {
		out[w] = tf
	}
	return out
}

// Text returns the stored text of id, for display purposes. It is not used
// by any core operation.
func (s *Server) Text(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Text(id)
}

// DocumentCount returns the number of live documents.
func (s *Server) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int(s.liveIDs.GetCardinality())
}

// IterateIDs returns the live document ids in ascending order.
func (s *Server) IterateIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idsLocked()
}

func (s *Server) idsLocked() []int {
	arr := s.liveIDs.ToArray()
	ids := make([]int, len(arr))
	for i, v := range arr {
		ids[i] = int(v)
	}
	return ids
}

func (s *Server) computeIDF(word string) float64 {
	df := len(s.wordToDocFreqs[word])
	return logNOverDF(s.liveIDs.GetCardinality(), df)
}
