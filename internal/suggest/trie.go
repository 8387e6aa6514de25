// Package suggest completes attribute and value input from imported data.
package suggest

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/spigell/profile-matcher/internal/matching"
)

const (
	DefaultLimit     = 10
	defaultCacheSize = 256

	prefixWeight     = 0.6
	similarityWeight = 0.3
	usageWeight      = 0.1
	// usageSaturation is the insert count at which usage stops adding to the score.
	usageSaturation = 10
)

type node struct {
	children map[rune]*node
	word     string
	count    int
}

// Trie stores words case-insensitively and answers prefix and fuzzy lookups.
type Trie struct {
	root  *node
	cache *lru.Cache[string, []string]
	size  int
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	cache, _ := lru.New[string, []string](defaultCacheSize)
	return &Trie{root: &node{}, cache: cache}
}

// Insert adds word, or bumps its usage when already present. The first
// spelling seen is the one returned by lookups.
func (t *Trie) Insert(word string) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return
	}

	n := t.root
	for _, r := range key {
		if n.children == nil {
			n.children = make(map[rune]*node)
		}
		child, ok := n.children[r]
		if !ok {
			child = &node{}
			n.children[r] = child
		}
		n = child
	}
	if n.word == "" {
		n.word = strings.TrimSpace(word)
		t.size++
	}
	n.count++
	t.cache.Purge()
}

// Len returns the number of distinct words.
func (t *Trie) Len() int {
	return t.size
}

// Search returns words starting with prefix.
func (t *Trie) Search(prefix string, limit int) []string {
	return t.FuzzySearch(prefix, 0, limit)
}

// FuzzySearch returns words whose leading runes are within maxDistance edits of
// query, best first. Words are ranked by prefix match, similarity and usage.
func (t *Trie) FuzzySearch(query string, maxDistance, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query = strings.ToLower(strings.TrimSpace(query))

	cacheKey := fmt.Sprintf("%s:%d:%d", query, maxDistance, limit)
	if cached, ok := t.cache.Get(cacheKey); ok {
		return append([]string(nil), cached...)
	}

	type scored struct {
		word  string
		score float64
	}
	var candidates []scored

	t.walk(t.root, "", func(key string, n *node) {
		if !within(query, key, maxDistance) {
			return
		}
		candidates = append(candidates, scored{word: n.word, score: score(query, key, n.count)})
	})

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].word < candidates[j].word
	})

	out := make([]string, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, c.word)
	}

	t.cache.Add(cacheKey, out)
	return append([]string(nil), out...)
}

func (t *Trie) walk(n *node, key string, visit func(string, *node)) {
	if n.word != "" {
		visit(key, n)
	}
	for r, child := range n.children {
		t.walk(child, key+string(r), visit)
	}
}

func within(query, key string, maxDistance int) bool {
	if strings.HasPrefix(key, query) {
		return true
	}
	if maxDistance <= 0 {
		return false
	}

	q, k := []rune(query), []rune(key)
	head := k
	if len(head) > len(q) {
		head = head[:len(q)]
	}
	return matching.Levenshtein(query, string(head)) <= maxDistance ||
		matching.Levenshtein(query, key) <= maxDistance
}

func score(query, key string, count int) float64 {
	prefix := 0.0
	if strings.HasPrefix(key, query) {
		prefix = 1
	}
	usage := min(float64(count)/usageSaturation, 1)
	return prefixWeight*prefix + similarityWeight*matching.Similarity(query, key) + usageWeight*usage
}
