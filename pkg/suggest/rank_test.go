package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ranks(pairs ...any) RankList {
	rl := RankList{}
	for i := 0; i < len(pairs); i += 2 {
		rl = append(rl, Rank{ID: pairs[i].(string), Weight: pairs[i+1].(int)})
	}
	return rl
}

func TestMergeRanks(t *testing.T) {
	testCases := []struct {
		description string
		a, b        RankList
		exclude     string
		limit       int
		expected    RankList
	}{
		{"Both empty", nil, nil, "", 10, RankList{}},
		{"Nil first list", nil, ranks("x", 3), "", 10, ranks("x", 3)},
		{"Nil second list", ranks("x", 3), nil, "", 10, ranks("x", 3)},
		{"Interleaves by weight", ranks("a", 9, "c", 5), ranks("b", 7, "d", 1), "", 10, ranks("a", 9, "b", 7, "c", 5, "d", 1)},
		{"Ties prefer first list", ranks("a", 5), ranks("b", 5), "", 10, ranks("a", 5, "b", 5)},
		{"Same id keeps second copy", ranks("x", 3), ranks("x", 4), "", 10, ranks("x", 4)},
		{"Stale copy dropped behind newer weight", ranks("w", 10, "x", 3, "y", 2), ranks("x", 4), "", 10, ranks("w", 10, "x", 4, "y", 2)},
		{"Cap during main merge", ranks("a", 9, "c", 5), ranks("b", 7, "d", 1), "", 2, ranks("a", 9, "b", 7)},
		{"Cap during drain", ranks("a", 9, "b", 8, "c", 7), nil, "", 2, ranks("a", 9, "b", 8)},
		{"Exclude in first list", ranks("a", 9, "b", 5), ranks("c", 7), "a", 10, ranks("c", 7, "b", 5)},
		{"Exclude in second list", ranks("a", 9), ranks("b", 7, "c", 1), "b", 10, ranks("a", 9, "c", 1)},
		{"Exclude while draining", ranks("a", 9, "b", 5), RankList{}, "b", 10, ranks("a", 9)},
		{"Reordered ties stay unique", ranks("ab", 5, "ac", 5), ranks("ac", 5, "ab", 5, "abd", 5), "", 10, ranks("ac", 5, "ab", 5, "abd", 5)},
		{"Zero limit", ranks("a", 1), ranks("b", 1), "", 0, RankList{}},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := mergeRanks(tc.a, tc.b, tc.exclude, tc.limit)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMergeRanksDoesNotModifyInputs(t *testing.T) {
	a := ranks("a", 9, "b", 5)
	b := ranks("c", 7)
	_ = mergeRanks(a, b, "a", 10)

	assert.Equal(t, ranks("a", 9, "b", 5), a)
	assert.Equal(t, ranks("c", 7), b)
}

func TestRankListContains(t *testing.T) {
	rl := ranks("a", 1, "b", 2)
	assert.True(t, rl.Contains("b"))
	assert.False(t, rl.Contains("z"))
}
