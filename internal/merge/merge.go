// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge reconciles the per-author publication sets of two sources
// into one deduplicated record per author.
package merge

import (
	"github.com/pdiddy/pubmerge/internal/title"
	"github.com/pdiddy/pubmerge/pkg/types"
)

// Dedup keeps the first publication of every normalized title key, in
// order, and drops publications whose key is empty. It returns the kept
// publications and the number removed as duplicates.
func Dedup(pubs []string) ([]string, int) {
	seen := make(map[string]bool, len(pubs))
	kept := make([]string, 0, len(pubs))
	removed := 0

	for _, p := range pubs {
		key := title.Normalize(p)
		if key == "" {
			continue
		}
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		kept = append(kept, p)
	}
	return kept, removed
}

// Merge unions the authors of a and b. Each author's publications are a's
// list followed by b's, deduplicated so that a's spelling of a shared
// title wins. The department is a's hint unless unknown, then b's.
// Authors left with no publications are dropped.
//
// Authors are matched by exact key. Output order is a's authors, then the
// authors only b has.
func Merge(a, b *types.AuthorPublicationSet) *types.MergeResult {
	result := &types.MergeResult{
		Records: make(map[string]*types.MergedAuthorRecord),
	}

	for _, author := range authorUnion(a, b) {
		ea, eb := a.Get(author), b.Get(author)

		var pubsA, pubsB []string
		if ea != nil {
			pubsA = ea.Publications
		}
		if eb != nil {
			pubsB = eb.Publications
		}

		all := make([]string, 0, len(pubsA)+len(pubsB))
		all = append(all, pubsA...)
		all = append(all, pubsB...)
		unique, removed := Dedup(all)

		if len(unique) == 0 {
			result.Dropped++
			continue
		}
		result.DuplicatesRemoved += removed

		result.Records[author] = &types.MergedAuthorRecord{
			Author:       author,
			Publications: unique,
			Department:   department(ea, eb),
			SourceACount: len(pubsA),
			SourceBCount: len(pubsB),
			TotalUnique:  len(unique),
		}
		result.Order = append(result.Order, author)
	}
	return result
}

func authorUnion(a, b *types.AuthorPublicationSet) []string {
	var authors []string
	seen := make(map[string]bool)
	for _, s := range []*types.AuthorPublicationSet{a, b} {
		if s == nil {
			continue
		}
		for _, author := range s.Order {
			if !seen[author] {
				seen[author] = true
				authors = append(authors, author)
			}
		}
	}
	return authors
}

func department(entries ...*types.AuthorPublications) string {
	for _, e := range entries {
		if e != nil && e.Department != "" && e.Department != types.UnknownDepartment {
			return e.Department
		}
	}
	return types.UnknownDepartment
}
