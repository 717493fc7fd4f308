package extract

import (
	"regexp"
	"strings"
)

// Mapper transforms or rejects a single candidate sentence.
// Implementations must be safe for concurrent use.
type Mapper interface {
	Map(sentence string) Result
}

// MapperFunc adapts a function to a Mapper.
type MapperFunc func(sentence string) Result

// Map calls f(sentence).
func (f MapperFunc) Map(sentence string) Result {
	return f(sentence)
}

var (
	bracketed     = regexp.MustCompile(`\s*[(\[{][^()\[\]{}]*[)\]}]`)
	spaceRun      = regexp.MustCompile(`\s+`)
	spaceBeforeP  = regexp.MustCompile(`\s+([.,;:!?])`)
	sentenceEnd   = regexp.MustCompile(`[.?!]["'”’)\]]*$`)
	sentenceStart = regexp.MustCompile(`^["'“‘(\[]*[\p{Lu}\p{N}]`)
)

// BracketsRemover strips parenthesised, bracketed and braced spans,
// innermost first, then tidies the whitespace left behind.
type BracketsRemover struct{}

// Map implements Mapper.
func (BracketsRemover) Map(sentence string) Result {
	for {
		next := bracketed.ReplaceAllString(sentence, "")
		if next == sentence {
			break
		}
		sentence = next
	}
	sentence = spaceRun.ReplaceAllString(sentence, " ")
	sentence = spaceBeforeP.ReplaceAllString(sentence, "$1")
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return Reject(sentence, ReasonEmpty)
	}
	return Accept(sentence)
}

// SentenceEndFilter rejects sentences that do not end in terminal
// punctuation, optionally followed by closing quotes or brackets.
type SentenceEndFilter struct{}

// Map implements Mapper.
func (SentenceEndFilter) Map(sentence string) Result {
	if !sentenceEnd.MatchString(sentence) {
		return Reject(sentence, ReasonBadEnd)
	}
	return Accept(sentence)
}

// SentenceStartFilter rejects sentences that do not start with an
// upper-case letter or digit, optionally preceded by opening quotes.
type SentenceStartFilter struct{}

// Map implements Mapper.
func (SentenceStartFilter) Map(sentence string) Result {
	if !sentenceStart.MatchString(sentence) {
		return Reject(sentence, ReasonBadStart)
	}
	return Accept(sentence)
}

// LengthFilter bounds the number of whitespace-separated tokens.
// A zero bound is not checked.
type LengthFilter struct {
	Min int
	Max int
}

// MinLength rejects sentences with fewer than n tokens.
func MinLength(n int) LengthFilter {
	return LengthFilter{Min: n}
}

// MaxLength rejects sentences with more than n tokens.
func MaxLength(n int) LengthFilter {
	return LengthFilter{Max: n}
}

// Map implements Mapper.
func (f LengthFilter) Map(sentence string) Result {
	n := len(strings.Fields(sentence))
	if f.Min > 0 && n < f.Min {
		return Reject(sentence, ReasonTooShort)
	}
	if f.Max > 0 && n > f.Max {
		return Reject(sentence, ReasonTooLong)
	}
	return Accept(sentence)
}
