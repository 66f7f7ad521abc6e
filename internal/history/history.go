// Package history is the bounded "recent queries" ring buffer: an external
// collaborator, not part of the core (spec.md §1). It only ever calls
// searchserver's public API.
package history

import (
	"container/ring"
	"sync"

	"github.com/google/uuid"

	"github.com/kestrelsearch/searchserver/internal/searchserver"
)

// minutesPerDay is the original request_queue.h's ring-buffer capacity: one
// slot per minute of a day.
const minutesPerDay = 1440

// Record is one recorded search, decorated with a correlation id the
// original never had.
type Record struct {
	ID    uuid.UUID
	Query string
	Found bool
}

// Queue wraps a *searchserver.Server and remembers the outcome of its last
// capacity find requests (minutesPerDay with New, any positive count with
// NewWithCapacity).
type Queue struct {
	mu       sync.Mutex
	server   *searchserver.Server
	capacity int
	buf      *ring.Ring
	size     int
}

// New wraps server with the default (1440-slot) capacity.
func New(server *searchserver.Server) *Queue {
	return NewWithCapacity(server, minutesPerDay)
}

// NewWithCapacity wraps server with an explicit capacity.
func NewWithCapacity(server *searchserver.Server, capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		server:   server,
		capacity: capacity,
		buf:      ring.New(capacity),
	}
}

func (q *Queue) push(rec Record) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf.Value = rec
	q.buf = q.buf.Next()
	if q.size < q.capacity {
		q.size++
	}
}

// AddFindRequest runs FindTopDocuments with an arbitrary predicate and
// records the outcome.
func (q *Queue) AddFindRequest(raw string, predicate searchserver.Predicate) ([]searchserver.Result, error) {
	results, err := q.server.FindTopDocumentsPredicate(raw, predicate)
	if err != nil {
		return nil, err
	}
	q.push(Record{ID: uuid.New(), Query: raw, Found: len(results) > 0})
	return results, nil
}

// AddFindRequestByStatus runs FindTopDocumentsByStatus and records the
// outcome.
func (q *Queue) AddFindRequestByStatus(raw string, status searchserver.Status) ([]searchserver.Result, error) {
	return q.AddFindRequest(raw, searchserver.ByStatus(status))
}

// AddFindRequestDefault runs FindTopDocuments (ACTUAL documents only) and
// records the outcome.
func (q *Queue) AddFindRequestDefault(raw string) ([]searchserver.Result, error) {
	return q.AddFindRequest(raw, searchserver.DefaultPredicate())
}

// NoResultCount returns how many of the currently retained requests
// returned no results, mirroring the original's GetNoResultRequests.
func (q *Queue) NoResultCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	q.buf.Do(func(v any) {
		if v == nil {
			return
		}
		if rec, ok := v.(Record); ok && !rec.Found {
			count++
		}
	})
	return count
}

// Len returns how many requests are currently retained (<= capacity).
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}
