package maxent

import (
	"slices"
	"strings"
	"unicode"
)

const (
	startSymbol = "<s>"
	endSymbol   = "</s>"
)

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// shape maps a word to its character classes with repeats collapsed,
// e.g. "McDonald's" -> "XxXx'x", "1990s" -> "dx".
func shape(word string) string {
	var b strings.Builder
	var last rune
	for _, r := range word {
		c := r
		switch {
		case unicode.IsUpper(r):
			c = 'X'
		case unicode.IsLower(r):
			c = 'x'
		case unicode.IsDigit(r):
			c = 'd'
		}
		if c != last {
			b.WriteRune(c)
			last = c
		}
	}
	return b.String()
}

func suffix(word string, n int) string {
	r := []rune(word)
	if len(r) <= n {
		return word
	}
	return string(r[len(r)-n:])
}

func at(items []string, i int) string {
	switch {
	case i < 0:
		return startSymbol
	case i >= len(items):
		return endSymbol
	default:
		return items[i]
	}
}
