package suggest

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const defaultWeight = 1

// ErrEmptyText is returned when an entry is built from blank text.
var ErrEmptyText = errors.New("suggest: text can't be empty")

// Record is the caller-facing input for an insert.
type Record[V any] struct {
	Text   string
	Value  V
	Weight int
}

// Entry is a stored record. ID is assigned once by NewEntry and never changes.
type Entry[V any] struct {
	ID     string
	Text   string
	Value  V
	Weight int
}

// NewEntry builds an entry with a fresh id. Weights below 1 become 1.
func NewEntry[V any](r Record[V]) (*Entry[V], error) {
	if strings.TrimSpace(r.Text) == "" {
		return nil, ErrEmptyText
	}

	weight := r.Weight
	if weight < 1 {
		weight = defaultWeight
	}

	return &Entry[V]{
		ID:     uuid.NewString(),
		Text:   r.Text,
		Value:  r.Value,
		Weight: weight,
	}, nil
}

// node is a single trie position. ranks caches the best entries found in the
// subtree rooted here, own included.
type node[V any] struct {
	children map[rune]*node[V]
	entry    *Entry[V]
	own      Rank
	ranks    RankList
}

func newNode[V any]() *node[V] {
	return &node[V]{
		children: make(map[rune]*node[V]),
		ranks:    RankList{},
	}
}

// isEmpty reports whether the node can be pruned from its parent.
func (n *node[V]) isEmpty() bool {
	return n.entry == nil && len(n.children) == 0
}
