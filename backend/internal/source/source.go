// Package source provides the word sources that feed the datamart: a local
// dictionary file and a Project Gutenberg book.
package source

import (
	"context"
	"sort"
)

// WordSource yields candidate words grouped by length and can archive the raw
// data it read into the data lake
type WordSource interface {
	// Name identifies the source in logs and reports
	Name() string
	// Words returns lowercase, deduplicated, sorted words keyed by rune length
	Words(ctx context.Context) (map[int][]string, error)
	// SaveRaw stores the unprocessed source under dir and returns the written path
	SaveRaw(ctx context.Context, dir string) (string, error)
}

// wordSet accumulates unique words per length
type wordSet map[int]map[string]struct{}

func (s wordSet) add(length int, word string) {
	bucket, ok := s[length]
	if !ok {
		bucket = make(map[string]struct{})
		s[length] = bucket
	}
	bucket[word] = struct{}{}
}

func (s wordSet) sorted() map[int][]string {
	out := make(map[int][]string, len(s))
	for length, bucket := range s {
		words := make([]string, 0, len(bucket))
		for w := range bucket {
			words = append(words, w)
		}
		sort.Strings(words)
		out[length] = words
	}
	return out
}
