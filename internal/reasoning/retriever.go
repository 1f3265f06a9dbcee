package reasoning

import (
	"sort"
	"strings"
)

// Retriever scores knowledge-base documents against a query by keyword
// overlap and returns the best matches.
type Retriever struct {
	documents []Document
}

// NewRetriever creates a retriever over the given documents.
func NewRetriever(documents []Document) *Retriever {
	return &Retriever{documents: documents}
}

// Retrieve returns up to k documents with at least one query term overlap,
// ordered by descending score.
func (r *Retriever) Retrieve(query string, k int) []Document {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		doc   Document
		score int
	}

	var matches []scored
	for _, doc := range r.documents {
		docTerms := tokenize(doc.Content + " " + doc.Source)
		score := 0
		for term := range terms {
			if _, ok := docTerms[term]; ok {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{doc: doc, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	out := make([]Document, len(matches))
	for i, m := range matches {
		out[i] = m.doc
	}
	return out
}

func tokenize(s string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(s)) {
		term := strings.Trim(field, ".,;:!?\"'()-")
		if len(term) > 2 {
			terms[term] = struct{}{}
		}
	}
	return terms
}
