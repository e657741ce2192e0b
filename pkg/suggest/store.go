package suggest

import (
	"github.com/tchap/go-patricia/v2/patricia"
)

// Store maps entry ids to caller values. The index only needs put, exact
// lookup and removal; no ordering is assumed.
type Store[V any] interface {
	Put(id string, value V)
	Get(id string) (V, bool)
	Remove(id string) bool
	Len() int
}

// MapStore is the default Store, a plain Go map.
type MapStore[V any] struct {
	values map[string]V
}

func NewMapStore[V any]() *MapStore[V] {
	return &MapStore[V]{values: make(map[string]V)}
}

// Put keeps the first value registered for id, like the index expects.
func (s *MapStore[V]) Put(id string, value V) {
	if _, exists := s.values[id]; exists {
		return
	}
	s.values[id] = value
}

func (s *MapStore[V]) Get(id string) (V, bool) {
	v, ok := s.values[id]
	return v, ok
}

func (s *MapStore[V]) Remove(id string) bool {
	if _, ok := s.values[id]; !ok {
		return false
	}
	delete(s.values, id)
	return true
}

func (s *MapStore[V]) Len() int {
	return len(s.values)
}

// PatriciaStore keeps values in a patricia trie keyed by id, a trie backed
// alternative to MapStore.
type PatriciaStore[V any] struct {
	trie  *patricia.Trie
	count int
}

// patriciaItem boxes values so a stored nil is not mistaken for a miss.
type patriciaItem[V any] struct {
	v V
}

func NewPatriciaStore[V any]() *PatriciaStore[V] {
	return &PatriciaStore[V]{trie: patricia.NewTrie()}
}

func (s *PatriciaStore[V]) Put(id string, value V) {
	if s.trie.Insert(patricia.Prefix(id), patriciaItem[V]{v: value}) {
		s.count++
	}
}

func (s *PatriciaStore[V]) Get(id string) (V, bool) {
	var zero V
	item, ok := s.trie.Get(patricia.Prefix(id)).(patriciaItem[V])
	if !ok {
		return zero, false
	}
	return item.v, true
}

func (s *PatriciaStore[V]) Remove(id string) bool {
	if !s.trie.Delete(patricia.Prefix(id)) {
		return false
	}
	s.count--
	return true
}

func (s *PatriciaStore[V]) Len() int {
	return s.count
}
