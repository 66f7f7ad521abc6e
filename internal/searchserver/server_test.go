package searchserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, stopWords string) *Server {
	t.Helper()
	s, err := New(stopWords)
	require.NoError(t, err)
	return s
}

func TestAddDocumentRejectsNegativeID(t *testing.T) {
	s := mustNew(t, "")
	err := s.AddDocument(-1, "a b", Actual, nil)
	assert.ErrorIs(t, err, ErrInvalidDocumentID)
}

func TestAddDocumentRejectsDuplicateID(t *testing.T) {
	s := mustNew(t, "")
	require.NoError(t, s.AddDocument(1, "a b", Actual, nil))
	err := s.AddDocument(1, "c d", Actual, nil)
	assert.ErrorIs(t, err, ErrDuplicateDocumentID)
}

func TestAddDocumentRejectsInvalidWord(t *testing.T) {
	s := mustNew(t, "")
	err := s.AddDocument(1, "good ba\x01d", Actual, nil)
	var invalid *InvalidWordError
	assert.ErrorAs(t, err, &invalid)
	assert.Zero(t, s.DocumentCount(), "AddDocument must not partially index on failure")
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0, ComputeAverageRating(nil))
	assert.Equal(t, 2, ComputeAverageRating([]int{1, 2, 3}))
}

// scenarioServer builds the 5-document "funny pet" corpus.
func scenarioServer(t *testing.T) *Server {
	t.Helper()
	s := mustNew(t, "and with")
	docs := []struct {
		id   int
		text string
	}{
		{1, "funny pet and nasty rat"},
		{2, "funny pet with curly hair"},
		{3, "funny pet and not very nasty rat"},
		{4, "pet with rat and rat and rat"},
		{5, "nasty rat with curly hair"},
	}
	for _, d := range docs {
		require.NoError(t, s.AddDocument(d.id, d.text, Actual, nil), "AddDocument(%d)", d.id)
	}
	return s
}

func TestMatchDocumentScenario(t *testing.T) {
	s := scenarioServer(t)

	words, status, err := s.MatchDocument("curly and funny -not", 1)
	require.NoError(t, err)
	assert.Equal(t, Actual, status)
	assert.Equal(t, []string{"funny"}, words)

	words, status, err = s.MatchDocument("curly and funny -not", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"curly", "funny"}, words)
	assert.Equal(t, Actual, status)

	words, _, err = s.MatchDocument("curly and funny -not", 3)
	require.NoError(t, err)
	assert.Empty(t, words, "expected no matched words due to minus word")
}

func TestFindTopDocumentsExcludesMinusWordHit(t *testing.T) {
	s := scenarioServer(t)
	results, err := s.FindTopDocuments("curly and funny -not")
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, 3, r.ID, "document 3 should be excluded by minus word, got results %+v", results)
	}
}

func TestFindTopDocumentsRelevanceScenario(t *testing.T) {
	s := mustNew(t, "")
	docs := []struct {
		id      int
		text    string
		ratings []int
	}{
		{1, "new fresh big orange", []int{1, 2, 3}},
		{2, "tasty fish", []int{3, 4, 5}},
		{3, "big wheel for my car", []int{6, 7, 8}},
	}
	for _, d := range docs {
		require.NoError(t, s.AddDocument(d.id, d.text, Actual, d.ratings), "AddDocument(%d)", d.id)
	}

	results, err := s.FindTopDocuments("fresh and big fish")
	require.NoError(t, err)
	require.Len(t, results, 3)

	wantOrder := []int{1, 2, 3}
	wantRelevance := map[int]float64{1: 0.549306, 2: 0.376019, 3: 0.081093}
	for i, r := range results {
		assert.Equal(t, wantOrder[i], r.ID, "result[%d] (%+v)", i, results)
		assert.InDelta(t, wantRelevance[r.ID], r.Relevance, 1e-5, "doc %d relevance", r.ID)
	}
}

func TestStopWordExclusion(t *testing.T) {
	s := mustNew(t, "in the")
	require.NoError(t, s.AddDocument(42, "cat in the city", Actual, nil))
	results, err := s.FindTopDocuments("in")
	require.NoError(t, err)
	assert.Empty(t, results, "expected no results for stop word query")
}

func TestFindTopDocumentsPredicateFilter(t *testing.T) {
	s := mustNew(t, "")
	for _, d := range []struct {
		id   int
		text string
	}{
		{1, "new fresh big orange"},
		{2, "tasty fish"},
		{3, "big wheel for my car"},
	} {
		require.NoError(t, s.AddDocument(d.id, d.text, Actual, nil), "AddDocument(%d)", d.id)
	}

	predicate := func(id int, _ Status, _ int) bool { return id%3 == 0 }
	results, err := s.FindTopDocumentsPredicate("fresh and big fish", predicate)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 3, results[0].ID)
}

func TestFindTopDocumentsByStatusFilter(t *testing.T) {
	s := mustNew(t, "")
	require.NoError(t, s.AddDocument(1, "new fresh big orange", Actual, nil))
	require.NoError(t, s.AddDocument(2, "tasty fish", Banned, nil))
	require.NoError(t, s.AddDocument(3, "big wheel for my car", Actual, nil))

	results, err := s.FindTopDocumentsByStatus("fresh and big fish", Banned)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 2, results[0].ID)
}

func TestRemoveDocumentIdempotent(t *testing.T) {
	s := scenarioServer(t)
	s.RemoveDocument(1)
	assert.Equal(t, 4, s.DocumentCount())
	s.RemoveDocument(1)
	assert.Equal(t, 4, s.DocumentCount(), "expected idempotent removal")
}

func TestRemoveDocumentClearsForwardAndInverted(t *testing.T) {
	s := scenarioServer(t)
	s.RemoveDocument(2)

	assert.Empty(t, s.GetWordFrequencies(2), "expected empty forward posting after removal")

	results, err := s.FindTopDocuments("curly")
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, 2, r.ID, "removed document must not appear in inverted index results")
	}
}

func TestIterateIDsAscending(t *testing.T) {
	s := mustNew(t, "")
	for _, id := range []int{5, 1, 3, 2, 4} {
		require.NoError(t, s.AddDocument(id, "word", Actual, nil), "AddDocument(%d)", id)
	}
	ids := s.IterateIDs()
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i], "ids not strictly ascending: %v", ids)
	}
}

func TestGetWordFrequenciesUnknownID(t *testing.T) {
	s := mustNew(t, "")
	assert.Empty(t, s.GetWordFrequencies(999))
}

func TestParallelMatchesSequential(t *testing.T) {
	s := scenarioServer(t)

	seqFind, err := s.FindTopDocuments("curly and funny -not")
	require.NoError(t, err)
	parFind, err := s.FindTopDocumentsParallel("curly and funny -not")
	require.NoError(t, err)
	assertSameResults(t, seqFind, parFind)

	seqWords, seqStatus, err := s.MatchDocument("curly and funny -not", 2)
	require.NoError(t, err)
	parWords, parStatus, err := s.MatchDocumentParallel("curly and funny -not", 2)
	require.NoError(t, err)
	assert.Equal(t, seqWords, parWords)
	assert.Equal(t, seqStatus, parStatus)
}

func assertSameResults(t *testing.T, a, b []Result) {
	t.Helper()
	require.Len(t, b, len(a), "result length mismatch: %+v vs %+v", a, b)
	seen := make(map[int]Result, len(a))
	for _, r := range a {
		seen[r.ID] = r
	}
	for _, r := range b {
		other, ok := seen[r.ID]
		require.True(t, ok, "doc %d present in one result set but not the other", r.ID)
		assert.InDelta(t, other.Relevance, r.Relevance, 1e-9, "doc %d relevance mismatch", r.ID)
	}
}
