// Package extract turns plain text or HTML into filtered sentences.
//
// An Extractor splits its input into blocks (paragraphs for plain text, block
// elements for HTML), hands each block to a Segmenter, and passes every
// candidate sentence through an ordered chain of Mappers. Each candidate ends
// as a Result that records whether it was accepted and, if not, why.
package extract

// Reason names the filter outcome for a rejected sentence.
type Reason string

// Rejection reasons reported by the built-in mappers.
const (
	ReasonEmpty    Reason = "empty"
	ReasonBadEnd   Reason = "bad_end"
	ReasonBadStart Reason = "bad_start"
	ReasonTooShort Reason = "too_short"
	ReasonTooLong  Reason = "too_long"
)

// Result is the outcome of running a candidate through a mapper chain.
// Sentence holds the text as last transformed, including for rejections.
type Result struct {
	Sentence string
	Accepted bool
	Reason   Reason
}

// Accept returns an accepted Result for s.
func Accept(s string) Result {
	return Result{Sentence: s, Accepted: true}
}

// Reject returns a rejected Result for s.
func Reject(s string, reason Reason) Result {
	return Result{Sentence: s, Reason: reason}
}
