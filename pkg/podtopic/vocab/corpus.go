package vocab

import (
	"sort"

	"github.com/cognicore/podtopic/pkg/podtopic/normalize"
)

// TermCount is one (id, count) entry of a bag of words.
type TermCount struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

// BagOfWords is a sparse term-frequency vector sorted by ascending id.
// Ids are unique and counts are at least 1.
type BagOfWords []TermCount

// Total returns the summed counts.
func (b BagOfWords) Total() int {
	n := 0
	for _, tc := range b {
		n += tc.Count
	}
	return n
}

// Counts returns the bag as an id->count map.
func (b BagOfWords) Counts() map[int]int {
	m := make(map[int]int, len(b))
	for _, tc := range b {
		m[tc.ID] = tc.Count
	}
	return m
}

// ToBagOfWords counts the tokens of normalized text that the index knows.
// Unseen tokens are dropped silently; empty text gives an empty bag.
func (x *Index) ToBagOfWords(text string) BagOfWords {
	counts := make(map[int]int)
	for _, tok := range normalize.Tokens(text) {
		if id, ok := x.ids[tok]; ok {
			counts[id]++
		}
	}

	bow := make(BagOfWords, 0, len(counts))
	for id, c := range counts {
		bow = append(bow, TermCount{ID: id, Count: c})
	}
	sort.Slice(bow, func(i, j int) bool { return bow[i].ID < bow[j].ID })
	return bow
}

// Corpus converts every normalized text to a bag of words, preserving order.
func (x *Index) Corpus(texts []string) []BagOfWords {
	corpus := make([]BagOfWords, len(texts))
	for i, t := range texts {
		corpus[i] = x.ToBagOfWords(t)
	}
	return corpus
}
