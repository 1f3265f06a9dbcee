// Package faq provides the static FAQ corpus and its resolution tiers.
package faq

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
)

// Corpus is an immutable mapping from exact question text to answer text,
// loaded once per process.
type Corpus map[string]string

// LoadCorpus reads a question/answer CSV file. The first row is treated as
// a header. Rows with fewer than two columns are skipped.
func LoadCorpus(path string) (Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FAQ file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse FAQ file: %w", err)
	}

	corpus := make(Corpus)
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		corpus[rec[0]] = rec[1]
	}
	return corpus, nil
}

// Questions returns the corpus questions in stable sorted order.
func (c Corpus) Questions() []string {
	questions := make([]string, 0, len(c))
	for q := range c {
		questions = append(questions, q)
	}
	sort.Strings(questions)
	return questions
}
