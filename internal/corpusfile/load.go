// Package corpusfile loads a YAML corpus dump into a Server. It is an
// external collaborator, grounded on the teacher's XML-dump LoadDocuments
// but generalized to a schema carrying status and ratings, which a
// Wikipedia abstract dump has no room for.
package corpusfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kestrelsearch/searchserver/internal/searchserver"
)

// Document is one YAML corpus entry. Deliberately just (id, text, status,
// ratings): a richer typed schema is a non-goal.
type Document struct {
	ID      int    `yaml:"id"`
	Text    string `yaml:"text"`
	Status  string `yaml:"status"`
	Ratings []int  `yaml:"ratings"`
}

// Dump is the top-level shape of a corpus file.
type Dump struct {
	StopWords []string   `yaml:"stop_words"`
	Documents []Document `yaml:"documents"`
}

var statusByName = map[string]searchserver.Status{
	"ACTUAL":     searchserver.Actual,
	"IRRELEVANT": searchserver.Irrelevant,
	"BANNED":     searchserver.Banned,
	"REMOVED":    searchserver.Removed,
}

// ParseStatus maps a YAML status name to a searchserver.Status, defaulting
// to ACTUAL for an empty string.
func ParseStatus(name string) (searchserver.Status, error) {
	if name == "" {
		return searchserver.Actual, nil
	}
	status, ok := statusByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown document status %q", name)
	}
	return status, nil
}

// Load reads a YAML corpus file and builds a populated Server.
func Load(path string, opts ...searchserver.Option) (*searchserver.Server, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading corpus file: %w", err)
	}

	var dump Dump
	if err := yaml.Unmarshal(raw, &dump); err != nil {
		return nil, 0, fmt.Errorf("parsing corpus file: %w", err)
	}

	server, err := searchserver.NewFromWords(dump.StopWords, opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("building stop words: %w", err)
	}

	added := 0
	for _, doc := range dump.Documents {
		status, err := ParseStatus(doc.Status)
		if err != nil {
			return nil, 0, fmt.Errorf("document %d: %w", doc.ID, err)
		}
		if err := server.AddDocument(doc.ID, doc.Text, status, doc.Ratings); err != nil {
			return nil, 0, fmt.Errorf("document %d: %w", doc.ID, err)
		}
		added++
	}
	return server, added, nil
}
