package suggest

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultMaxSuggestion        = 10
	DefaultAllowedMismatchCount = 3
	MaxAllowedMismatchCount     = 3
)

// Options configures an Index. It is treated as an immutable value:
// UpdateOptions swaps the whole struct rather than single fields.
type Options struct {
	// MaxSuggestion caps every ranked list, so it bounds both the result size
	// and the per-node cache size.
	MaxSuggestion int

	// AllowedMismatchCount is the number of same-position substitutions a
	// query may contain. Values outside [1, 3] fall back to 3.
	AllowedMismatchCount int

	// CaseSensitive disables case folding of stored text and queries.
	// The zero value folds case.
	CaseSensitive bool
}

// DefaultOptions returns 10 suggestions, 3 mismatches and case folding.
func DefaultOptions() Options {
	return Options{
		MaxSuggestion:        DefaultMaxSuggestion,
		AllowedMismatchCount: DefaultAllowedMismatchCount,
	}
}

// Normalize silently replaces out-of-range values with their defaults.
func (o Options) Normalize() Options {
	if o.MaxSuggestion <= 0 {
		o.MaxSuggestion = DefaultMaxSuggestion
	}
	if o.AllowedMismatchCount < 1 || o.AllowedMismatchCount > MaxAllowedMismatchCount {
		o.AllowedMismatchCount = DefaultAllowedMismatchCount
	}
	return o
}

// IgnoreCase reports whether text is case folded before use.
func (o Options) IgnoreCase() bool {
	return !o.CaseSensitive
}

// normalizer turns raw text into trie keys.
type normalizer struct {
	fold   cases.Caser
	ignore bool
}

func newNormalizer(ignoreCase bool) *normalizer {
	return &normalizer{
		fold:   cases.Fold(),
		ignore: ignoreCase,
	}
}

func (n *normalizer) normalize(text string) string {
	text = norm.NFC.String(strings.TrimSpace(text))
	if n.ignore {
		text = n.fold.String(text)
	}
	return text
}
