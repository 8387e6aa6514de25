package suggest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newCityTrie() *Trie {
	t := NewTrie()
	for _, w := range []string{"Berlin", "Bern", "Boston", "berlin", "  "} {
		t.Insert(w)
	}
	return t
}

func TestTrieInsert(t *testing.T) {
	t.Parallel()

	trie := newCityTrie()
	if got := trie.Len(); got != 3 {
		t.Fatalf("expected 3 distinct words, got %d", got)
	}
}

func TestTrieSearch(t *testing.T) {
	t.Parallel()

	trie := newCityTrie()

	tests := []struct {
		name   string
		prefix string
		limit  int
		want   []string
	}{
		{name: "shorter word ranks first", prefix: "ber", limit: 10, want: []string{"Bern", "Berlin"}},
		{name: "case insensitive", prefix: "BOS", limit: 10, want: []string{"Boston"}},
		{name: "limit", prefix: "b", limit: 1, want: []string{"Bern"}},
		{name: "no match", prefix: "x", limit: 10, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, trie.Search(tt.prefix, tt.limit)); diff != "" {
				t.Fatalf("Search(%q) mismatch (-want +got):\n%s", tt.prefix, diff)
			}
		})
	}
}

func TestTrieFuzzySearch(t *testing.T) {
	t.Parallel()

	trie := newCityTrie()

	if got := trie.FuzzySearch("bostn", 0, 10); len(got) != 0 {
		t.Fatalf("expected no exact prefix match, got %v", got)
	}
	if diff := cmp.Diff([]string{"Boston"}, trie.FuzzySearch("bostn", 1, 10)); diff != "" {
		t.Fatalf("fuzzy mismatch (-want +got):\n%s", diff)
	}
}

func TestTrieCachePurgedOnInsert(t *testing.T) {
	t.Parallel()

	trie := newCityTrie()
	if got := trie.Search("bo", 10); len(got) != 1 {
		t.Fatalf("expected 1 result before insert, got %v", got)
	}

	trie.Insert("Bolivia")

	if got := trie.Search("bo", 10); len(got) != 2 {
		t.Fatalf("expected cached result to be dropped after insert, got %v", got)
	}
}

func TestTrieResultsAreCopies(t *testing.T) {
	t.Parallel()

	trie := newCityTrie()
	first := trie.Search("bos", 10)
	first[0] = "mutated"

	if got := trie.Search("bos", 10); got[0] != "Boston" {
		t.Fatalf("cached result was mutated: %v", got)
	}
}
