// Package suggest is the core, a weighted trie where every node caches the best ranked entries of its subtree,
// searched by prefix with a bounded number of same-position character mismatches.
package suggest

// ISuggester defines the interface for autocomplete indexes
type ISuggester[V any] interface {
	// Insert adds a record or reinforces text that is already stored
	Insert(r Record[V]) bool

	// InsertMany inserts a batch, true if any record was accepted
	InsertMany(records []Record[V]) bool

	// Delete removes the entry stored under text
	Delete(text string) bool

	// Suggest returns values for a query, best first
	Suggest(query string) []V

	// SuggestRanked returns values with their ids and weights
	SuggestRanked(query string) []Suggestion[V]

	// Clear empties the index but keeps its options
	Clear()

	// Options returns the active limits
	Options() Options

	// UpdateOptions changes the suggestion cap and mismatch budget
	UpdateOptions(opts Options)

	// OnUpdate registers the re-insertion observer
	OnUpdate(fn UpdateFunc[V])

	// Len returns the number of stored entries
	Len() int

	// Stats returns counters about the index
	Stats() map[string]int
}

var _ ISuggester[string] = (*Index[string])(nil)
