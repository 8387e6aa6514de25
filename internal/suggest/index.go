package suggest

import (
	"fmt"

	"github.com/spigell/profile-matcher/internal/records"
	"github.com/spigell/profile-matcher/internal/search"
)

// maxDistance is the edit distance tolerated when completing typed input.
const maxDistance = 1

// Index holds the attributes and per-attribute values of a dataset.
type Index struct {
	attributes *Trie
	known      map[string]struct{}
	values     map[string]*Trie
}

// NewIndex builds an index from rs.
func NewIndex(rs []records.Record) *Index {
	idx := &Index{attributes: NewTrie(), known: make(map[string]struct{}), values: make(map[string]*Trie)}
	for _, rec := range rs {
		for _, key := range rec.Keys() {
			idx.attributes.Insert(key)
			idx.known[key] = struct{}{}

			value := rec.String(key)
			if value == "" {
				continue
			}
			values, ok := idx.values[key]
			if !ok {
				values = NewTrie()
				idx.values[key] = values
			}
			values.Insert(value)
		}
	}
	return idx
}

// Suggest completes input. While the attribute is being typed it returns
// "attribute:" completions, afterwards "attribute:value" completions.
func (i *Index) Suggest(input string, limit int) []string {
	parsed := search.ParseInput(input)

	if parsed.Stage == search.StageAttribute {
		attrs := i.attributes.FuzzySearch(parsed.Partial, maxDistance, limit)
		out := make([]string, 0, len(attrs))
		for _, a := range attrs {
			out = append(out, a+":")
		}
		return out
	}

	values, ok := i.values[parsed.Attribute]
	if !ok {
		return nil
	}
	found := values.FuzzySearch(parsed.Partial, maxDistance, limit)
	out := make([]string, 0, len(found))
	for _, v := range found {
		out = append(out, parsed.Attribute+":"+v)
	}
	return out
}

// Check reports criteria that refer to attributes absent from the dataset.
func (i *Index) Check(c search.Criterion) []string {
	if _, ok := i.known[c.Name()]; ok {
		return nil
	}
	return []string{fmt.Sprintf("unknown attribute: %s", c.Name())}
}
