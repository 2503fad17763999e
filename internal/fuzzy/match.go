// Package fuzzy finds approximate phrase matches in a word sequence.
//
// A query of Q whitespace-separated tokens is compared against every
// contiguous window of Q-1, Q and Q+1 words, so a single inserted or dropped
// token still matches. Windows are scored with an Indel similarity ratio,
// filtered to a similarity range, reduced to a non-overlapping set (best score
// first, shortest window on ties), and trimmed to the top K.
//
// Match is a pure function and safe for concurrent use.
package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

const defaultTopK = 10

// Span is a matched window of the word sequence. Start and End are inclusive
// positions in the sequence passed to Match.
type Span struct {
	Start int     `json:"start_index"`
	End   int     `json:"end_index"`
	Score float64 `json:"similarity_score"`
}

// Len is the number of words covered.
func (s Span) Len() int { return s.End - s.Start + 1 }

// Overlaps reports whether two spans share at least one position.
func (s Span) Overlaps(o Span) bool {
	return s.Start <= o.End && o.Start <= s.End
}

type options struct {
	minScore float64
	maxScore float64
	topK     int
}

// Option is a functional option for Match.
type Option func(*options)

// WithSimilarityRange keeps only windows scoring within [min, max], both
// inclusive. Default: [0, 1].
func WithSimilarityRange(lo, hi float64) Option {
	return func(o *options) {
		o.minScore = lo
		o.maxScore = hi
	}
}

// WithTopK caps the number of returned spans. Default: 10.
func WithTopK(k int) Option {
	return func(o *options) { o.topK = k }
}

type candidate struct {
	Span
	size int
}

// Match returns the best non-overlapping windows of words resembling query,
// ordered by score descending.
func Match(words []string, query string, opts ...Option) []Span {
	o := options{minScore: 0, maxScore: 1, topK: defaultTopK}
	for _, fn := range opts {
		fn(&o)
	}

	q := len(strings.Fields(query))
	if q == 0 || len(words) == 0 || o.topK <= 0 {
		return nil
	}

	minSize := max(1, q-1)
	maxSize := min(q+1, len(words))

	var candidates []candidate
	for size := minSize; size <= maxSize; size++ {
		for start := 0; start+size <= len(words); start++ {
			end := start + size - 1
			score := Ratio(query, strings.Join(words[start:end+1], " "))
			if score < o.minScore || score > o.maxScore {
				continue
			}
			candidates = append(candidates, candidate{
				Span: Span{Start: start, End: end, Score: score},
				size: size,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].size < candidates[j].size
	})

	var accepted []Span
	for _, c := range candidates {
		if overlapsAny(c.Span, accepted) {
			continue
		}
		accepted = append(accepted, c.Span)
	}

	// Already score-ordered; the stable sort keeps tie order from selection.
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Score > accepted[j].Score
	})
	if len(accepted) > o.topK {
		accepted = accepted[:o.topK]
	}
	return accepted
}

func overlapsAny(s Span, accepted []Span) bool {
	for _, a := range accepted {
		if s.Overlaps(a) {
			return true
		}
	}
	return false
}

// Ratio is the normalized Indel similarity of a and b in [0, 1]:
// 2*LCS / (len(a)+len(b)), counted in runes. Two empty strings are identical.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	lcs := matchr.LongestCommonSubsequence(a, b)
	return float64(2*lcs) / float64(total)
}
