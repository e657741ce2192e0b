package utils

import (
	"strconv"
	"strings"
)

// SplitWeight splits a "text [weight]" line. The last whitespace separated
// field is taken as the weight when it parses as an integer and something
// precedes it; otherwise the whole line is text and fallback is returned.
func SplitWeight(line string, fallback int) (string, int) {
	line = strings.TrimSpace(line)
	cut := strings.LastIndexAny(line, " \t")
	if cut < 0 {
		return line, fallback
	}
	weight, err := strconv.Atoi(line[cut+1:])
	if err != nil {
		return line, fallback
	}
	text := strings.TrimSpace(line[:cut])
	if text == "" {
		return line, fallback
	}
	return text, weight
}

// FormatWithCommas groups the digits of n in threes.
func FormatWithCommas(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
