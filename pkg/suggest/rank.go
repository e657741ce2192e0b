package suggest

// linearLookupMax is the list size up to which membership is checked by
// scanning instead of building a set.
const linearLookupMax = 16

// Rank is the (id, weight) pair that ranked lists are built from.
type Rank struct {
	ID     string
	Weight int
}

// RankList is ordered by weight, highest first, with unique ids.
type RankList []Rank

// Contains reports whether id is present in the list.
func (rl RankList) Contains(id string) bool {
	for _, r := range rl {
		if r.ID == id {
			return true
		}
	}
	return false
}

// idSet answers membership questions about b during a merge.
type idSet struct {
	list RankList
	set  map[string]struct{}
}

func newIDSet(rl RankList) idSet {
	s := idSet{list: rl}
	if len(rl) > linearLookupMax {
		s.set = make(map[string]struct{}, len(rl))
		for _, r := range rl {
			s.set[r.ID] = struct{}{}
		}
	}
	return s
}

func (s idSet) has(id string) bool {
	if s.set != nil {
		_, ok := s.set[id]
		return ok
	}
	return s.list.Contains(id)
}

// mergeRanks combines two weight-sorted lists into a new list of at most limit
// entries. An id present in both lists is taken from b, which carries the
// fresher weight on every rebuild path. Entries whose id equals exclude are
// skipped on either side. Ties in weight prefer a.
// A nil list is treated as empty and the inputs are never modified.
func mergeRanks(a, b RankList, exclude string, limit int) RankList {
	if limit <= 0 {
		return RankList{}
	}

	size := len(a) + len(b)
	if size > limit {
		size = limit
	}
	merged := make(RankList, 0, size)
	inB := newIDSet(b)

	// skipA covers both the aligned-cursor case and a copy of the same id
	// further down b, which ties can reorder.
	skipA := func(r Rank) bool {
		return (exclude != "" && r.ID == exclude) || inB.has(r.ID)
	}

	i, j := 0, 0
	for len(merged) < limit && i < len(a) && j < len(b) {
		switch {
		case skipA(a[i]):
			i++
		case exclude != "" && b[j].ID == exclude:
			j++
		case a[i].Weight >= b[j].Weight:
			merged = append(merged, a[i])
			i++
		default:
			merged = append(merged, b[j])
			j++
		}
	}

	for ; len(merged) < limit && i < len(a); i++ {
		if skipA(a[i]) {
			continue
		}
		merged = append(merged, a[i])
	}

	for ; len(merged) < limit && j < len(b); j++ {
		if exclude != "" && b[j].ID == exclude {
			continue
		}
		merged = append(merged, b[j])
	}

	return merged
}
