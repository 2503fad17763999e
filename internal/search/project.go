package search

import (
	"math"
	"strings"

	"github.com/snarg/speech-mine/internal/fuzzy"
	"github.com/snarg/speech-mine/internal/transcript"
)

// startTolerance is how far apart (seconds) two word start times may be and
// still be treated as the same word when mapping a global span back onto an
// utterance.
const startTolerance = 0.1

// MatchIndices locates a hit both globally and within its utterance.
type MatchIndices struct {
	GlobalStartIndex    int `json:"global_start_index"`
	GlobalEndIndex      int `json:"global_end_index"`
	UtteranceStartIndex int `json:"utterance_start_index"`
	UtteranceEndIndex   int `json:"utterance_end_index"`
}

// UtteranceContext describes the utterance a hit was found in.
type UtteranceContext struct {
	FullSegmentText   string   `json:"full_segment_text"`
	Speaker           string   `json:"speaker"`
	SegmentConfidence *float64 `json:"segment_confidence"`
}

// UtteranceHit is a match expressed relative to its utterance.
type UtteranceHit struct {
	MatchIndices    MatchIndices        `json:"match_indices"`
	SimilarityScore float64             `json:"similarity_score"`
	UtteranceNumber int                 `json:"utterance_number"`
	MatchedWords    []string            `json:"matched_words"`
	MatchedText     string              `json:"matched_text"`
	TimeSpan        transcript.TimeSpan `json:"time_span"`
	Context         UtteranceContext    `json:"context"`
}

// TimeWindow is the literal audio window covered by a hit. A bound is null
// when the word it comes from has no timing; Duration is null unless both
// bounds are known.
type TimeWindow struct {
	StartTime *float64 `json:"start_time"`
	EndTime   *float64 `json:"end_time"`
	Duration  *float64 `json:"duration"`
}

// WordDetail is per-word timing in a timestamp hit.
type WordDetail struct {
	Word       string   `json:"word"`
	Start      *float64 `json:"start"`
	End        *float64 `json:"end"`
	Confidence *float64 `json:"confidence"`
}

// TimestampContext describes the utterance of a hit's first word.
type TimestampContext struct {
	FullSegmentText string `json:"full_segment_text"`
	Speaker         string `json:"speaker"`
	UtteranceNumber *int   `json:"utterance_number"`
}

// TimestampHit is a match expressed as a time window.
type TimestampHit struct {
	SimilarityScore float64          `json:"similarity_score"`
	TimeWindow      TimeWindow       `json:"time_window"`
	MatchedWords    []string         `json:"matched_words"`
	MatchedText     string           `json:"matched_text"`
	WordDetails     []WordDetail     `json:"word_details"`
	Context         TimestampContext `json:"context"`
}

// Projector turns global spans from fuzzy.Match into presentation views over
// the index the spans were computed against.
type Projector struct {
	idx *transcript.Index
}

// NewProjector returns a Projector over idx.
func NewProjector(idx *transcript.Index) *Projector {
	return &Projector{idx: idx}
}

// UtteranceView maps each span onto utterance-local indices. Spans whose
// boundaries cannot be located inside the first word's utterance are left out.
func (p *Projector) UtteranceView(spans []fuzzy.Span) []UtteranceHit {
	hits := []UtteranceHit{}
	for _, s := range spans {
		matched, ok := p.globalWords(s)
		if !ok {
			continue
		}
		first, last := matched[0], matched[len(matched)-1]
		if first.UtteranceNumber == nil {
			continue
		}
		utt := *first.UtteranceNumber

		local, _ := p.idx.UtteranceWords(utt)
		start, end, ok := locate(local, first, last)
		if !ok {
			continue
		}
		rng, ok := p.idx.WordRange(utt, start, end)
		if !ok {
			continue
		}

		words := wordTexts(rng.Words)
		hits = append(hits, UtteranceHit{
			MatchIndices: MatchIndices{
				GlobalStartIndex:    s.Start,
				GlobalEndIndex:      s.End,
				UtteranceStartIndex: start,
				UtteranceEndIndex:   end,
			},
			SimilarityScore: round(s.Score, 4),
			UtteranceNumber: rng.UtteranceNumber,
			MatchedWords:    words,
			MatchedText:     strings.Join(words, " "),
			TimeSpan: transcript.TimeSpan{
				Start:    rng.TimeSpan.Start,
				End:      rng.TimeSpan.End,
				Duration: round(rng.TimeSpan.Duration, 3),
			},
			Context: UtteranceContext{
				FullSegmentText:   rng.SegmentData.Text,
				Speaker:           rng.SegmentData.Speaker,
				SegmentConfidence: rng.SegmentData.Confidence,
			},
		})
	}
	return hits
}

// TimestampView reports each span as the time window between its first
// word's start and last word's end.
func (p *Projector) TimestampView(spans []fuzzy.Span) []TimestampHit {
	hits := []TimestampHit{}
	for _, s := range spans {
		matched, ok := p.globalWords(s)
		if !ok {
			continue
		}
		first, last := matched[0], matched[len(matched)-1]

		details := make([]WordDetail, len(matched))
		for i, w := range matched {
			details[i] = WordDetail{Word: w.Word, Start: w.Start, End: w.End, Confidence: w.Confidence}
		}

		window := TimeWindow{StartTime: first.Start, EndTime: last.End}
		if first.Start != nil && last.End != nil {
			d := round(*last.End-*first.Start, 3)
			window.Duration = &d
		}
		words := wordTexts(matched)
		hits = append(hits, TimestampHit{
			SimilarityScore: round(s.Score, 4),
			TimeWindow:      window,
			MatchedWords: words,
			MatchedText:  strings.Join(words, " "),
			WordDetails:  details,
			Context: TimestampContext{
				FullSegmentText: first.Text,
				Speaker:         first.Speaker,
				UtteranceNumber: first.UtteranceNumber,
			},
		})
	}
	return hits
}

// globalWords slices the global sequence for a span.
func (p *Projector) globalWords(s fuzzy.Span) ([]transcript.Word, bool) {
	if s.Start < 0 || s.Start > s.End || s.End >= p.idx.WordCount() {
		return nil, false
	}
	out := make([]transcript.Word, 0, s.Len())
	for i := s.Start; i <= s.End; i++ {
		w, _ := p.idx.WordAt(i)
		out = append(out, w)
	}
	return out, true
}

// locate finds the local start at the first word matching first, then the
// first word from there on matching last.
func locate(local []transcript.Word, first, last transcript.Word) (int, int, bool) {
	start := -1
	for i, w := range local {
		if start < 0 && sameWord(w, first) {
			start = i
		}
		if start >= 0 && sameWord(w, last) {
			return start, i, true
		}
	}
	return 0, 0, false
}

func sameWord(a, b transcript.Word) bool {
	if a.Word != b.Word {
		return false
	}
	if a.Start == nil || b.Start == nil {
		return a.Start == nil && b.Start == nil
	}
	return math.Abs(*a.Start-*b.Start) < startTolerance
}

func wordTexts(words []transcript.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Word
	}
	return out
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
