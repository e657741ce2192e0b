package suggest

import (
	"github.com/charmbracelet/log"
)

// insert walks key from n, creating missing nodes, attaches or reinforces the
// entry at the end of the path and rebuilds every cache on the way back up.
// The return value tells the caller whether its own cache must be rebuilt.
func (i *Index[V]) insert(n *node[V], e *Entry[V], key []rune, pos int) bool {
	if n == nil || pos > len(key) {
		return false
	}

	if pos == len(key) {
		i.attach(n, e)
		n.ranks = mergeRanks(n.ranks, RankList{n.own}, "", i.opts.MaxSuggestion)
		return true
	}

	c := key[pos]
	child, ok := n.children[c]
	if !ok {
		child = newNode[V]()
		n.children[c] = child
		i.nodeCount++
	}

	if !i.insert(child, e, key, pos+1) {
		return false
	}
	n.ranks = mergeRanks(n.ranks, child.ranks, "", i.opts.MaxSuggestion)
	return true
}

// attach sets e as the terminal entry of n. Text that is already stored keeps
// its id, gets the new value and has its weight bumped by one.
func (i *Index[V]) attach(n *node[V], e *Entry[V]) {
	if n.entry == nil {
		n.entry = e
		n.own = Rank{ID: e.ID, Weight: e.Weight}
		i.store.Put(e.ID, e.Value)
		return
	}

	existing := n.entry
	i.store.Remove(existing.ID)
	n.own.Weight++
	existing.Value = e.Value
	existing.Weight = n.own.Weight
	i.store.Put(existing.ID, existing.Value)

	log.Debugf("Reinforced %q to weight %d", existing.Text, existing.Weight)
	i.notify(*existing)
}

// remove detaches the entry stored under key and returns its id. Caches on the
// path are purged of that id only; nothing is re-aggregated from siblings.
func (i *Index[V]) remove(n *node[V], key []rune, pos int) (string, bool) {
	if n == nil || pos > len(key) {
		return "", false
	}

	if pos == len(key) {
		if n.entry == nil {
			return "", false
		}
		id := n.entry.ID
		i.store.Remove(id)
		n.entry = nil
		n.own = Rank{}
		n.ranks = mergeRanks(n.ranks, nil, id, i.opts.MaxSuggestion)
		return id, true
	}

	c := key[pos]
	child, ok := n.children[c]
	if !ok {
		return "", false
	}

	id, removed := i.remove(child, key, pos+1)
	if !removed {
		return "", false
	}

	if child.isEmpty() {
		delete(n.children, c)
		i.nodeCount--
	}
	n.ranks = mergeRanks(n.ranks, nil, id, i.opts.MaxSuggestion)
	return id, true
}

// search collects ranks for every path that aligns with query position by
// position, allowing up to AllowedMismatchCount substituted characters.
// At the end of the query an exact path puts its own entry in front of the
// cached list; a path that spent mismatches returns the cached list as is.
func (i *Index[V]) search(n *node[V], query []rune, mismatches, pos int) RankList {
	if n == nil {
		return nil
	}

	if pos == len(query) {
		if mismatches == 0 && n.entry != nil {
			return mergeRanks(RankList{n.own}, n.ranks, "", i.opts.MaxSuggestion)
		}
		return n.ranks
	}

	limit := i.opts.MaxSuggestion
	budget := i.opts.AllowedMismatchCount
	c := query[pos]
	var results RankList

	if mismatches == budget {
		if child, ok := n.children[c]; ok {
			results = mergeRanks(results, i.search(child, query, mismatches, pos+1), "", limit)
		}
		return results
	}

	for key, child := range n.children {
		next := mismatches
		if key != c {
			next++
		}
		if next > budget {
			continue
		}
		results = mergeRanks(results, i.search(child, query, next, pos+1), "", limit)
	}
	return results
}
