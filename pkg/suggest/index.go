package suggest

import (
	"github.com/charmbracelet/log"
)

// UpdateFunc observes re-insertions of text that was already stored.
type UpdateFunc[V any] func(Entry[V])

// Suggestion is a resolved search hit.
type Suggestion[V any] struct {
	ID     string
	Value  V
	Weight int
}

// Index is a weighted autocomplete trie. Every node caches the top
// MaxSuggestion ranks of its subtree, so prefix lookups never walk the whole
// subtree. Index is not safe for concurrent use; callers serialize access.
type Index[V any] struct {
	root      *node[V]
	store     Store[V]
	newStore  func() Store[V]
	nodeCount int
	opts      Options
	norm      *normalizer
	onUpdate  UpdateFunc[V]
}

// New creates an empty index backed by a MapStore.
func New[V any](opts Options) *Index[V] {
	return newIndex[V](opts, func() Store[V] { return NewMapStore[V]() })
}

// NewWithStore creates an empty index that registers values in store.
// Clear empties the index by removing every known id from store.
func NewWithStore[V any](opts Options, store Store[V]) *Index[V] {
	idx := newIndex[V](opts, nil)
	idx.store = store
	return idx
}

func newIndex[V any](opts Options, newStore func() Store[V]) *Index[V] {
	opts = opts.Normalize()
	idx := &Index[V]{
		root:     newNode[V](),
		newStore: newStore,
		opts:     opts,
		norm:     newNormalizer(opts.IgnoreCase()),
	}
	if newStore != nil {
		idx.store = newStore()
	}
	return idx
}

// Insert adds r or, if its normalized text is already stored, replaces the
// value and raises the stored weight by one. Blank text is rejected.
func (i *Index[V]) Insert(r Record[V]) bool {
	text := i.norm.normalize(r.Text)
	if text == "" {
		return false
	}
	r.Text = text

	e, err := NewEntry(r)
	if err != nil {
		log.Debugf("Rejected record: %v", err)
		return false
	}

	return i.insert(i.root, e, []rune(text), 0)
}

// InsertMany inserts every record and reports whether at least one succeeded.
func (i *Index[V]) InsertMany(records []Record[V]) bool {
	inserted := false
	for _, r := range records {
		if i.Insert(r) {
			inserted = true
		}
	}
	return inserted
}

// Delete removes the entry stored under text. It reports false when the text
// was never inserted.
func (i *Index[V]) Delete(text string) bool {
	key := i.norm.normalize(text)
	if key == "" {
		return false
	}
	_, removed := i.remove(i.root, []rune(key), 0)
	return removed
}

// Suggest returns up to MaxSuggestion values, highest weight first.
func (i *Index[V]) Suggest(query string) []V {
	ranked := i.SuggestRanked(query)
	values := make([]V, len(ranked))
	for n, s := range ranked {
		values[n] = s.Value
	}
	return values
}

// SuggestRanked is Suggest with ids and weights attached. A blank query
// returns the global top list.
func (i *Index[V]) SuggestRanked(query string) []Suggestion[V] {
	var ranks RankList
	key := i.norm.normalize(query)
	if key == "" {
		ranks = i.root.ranks
	} else {
		ranks = i.search(i.root, []rune(key), 0, 0)
	}
	// cached lists may predate a lowered MaxSuggestion
	if len(ranks) > i.opts.MaxSuggestion {
		ranks = ranks[:i.opts.MaxSuggestion]
	}

	suggestions := make([]Suggestion[V], 0, len(ranks))
	for _, r := range ranks {
		v, ok := i.store.Get(r.ID)
		if !ok {
			continue
		}
		suggestions = append(suggestions, Suggestion[V]{
			ID:     r.ID,
			Value:  v,
			Weight: r.Weight,
		})
	}
	return suggestions
}

// NodeCount returns the number of trie nodes below the root.
func (i *Index[V]) NodeCount() int {
	return i.nodeCount
}

// Len returns the number of stored entries.
func (i *Index[V]) Len() int {
	return i.store.Len()
}

// Clear drops every entry and node. Options and the observer are kept.
func (i *Index[V]) Clear() {
	if i.newStore != nil {
		i.store = i.newStore()
	} else {
		i.dropValues(i.root)
	}
	i.root = newNode[V]()
	i.nodeCount = 0
	i.opts = i.opts.Normalize()
	log.Debug("Index cleared")
}

// dropValues empties a caller supplied store of every id the trie knows.
func (i *Index[V]) dropValues(n *node[V]) {
	if n.entry != nil {
		i.store.Remove(n.entry.ID)
	}
	for _, child := range n.children {
		i.dropValues(child)
	}
}

// Options returns the active options.
func (i *Index[V]) Options() Options {
	return i.opts
}

// UpdateOptions replaces the suggestion cap and mismatch budget. The case
// mode is fixed for the lifetime of the index since stored keys depend on it.
func (i *Index[V]) UpdateOptions(opts Options) {
	opts = opts.Normalize()
	if opts.CaseSensitive != i.opts.CaseSensitive {
		log.Warn("Case sensitivity is fixed at construction, keeping current mode")
		opts.CaseSensitive = i.opts.CaseSensitive
	}
	i.opts = opts
	log.Debugf("Options updated: maxSuggestion=%d mismatch=%d", opts.MaxSuggestion, opts.AllowedMismatchCount)
}

// OnUpdate sets the single observer for re-insertions. Passing nil removes it.
func (i *Index[V]) OnUpdate(fn UpdateFunc[V]) {
	i.onUpdate = fn
}

func (i *Index[V]) notify(e Entry[V]) {
	if i.onUpdate != nil {
		i.onUpdate(e)
	}
}

// Stats returns counters about the index.
func (i *Index[V]) Stats() map[string]int {
	return map[string]int{
		"entries":              i.store.Len(),
		"nodes":                i.nodeCount,
		"maxSuggestion":        i.opts.MaxSuggestion,
		"allowedMismatchCount": i.opts.AllowedMismatchCount,
		"rootRanks":            len(i.root.ranks),
	}
}
