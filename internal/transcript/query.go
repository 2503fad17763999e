package transcript

import (
	"sort"
	"strings"
)

// TimeSpan is a derived [start, end] window in seconds. Missing endpoints
// count as 0.
type TimeSpan struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// WordResult is a single word looked up by utterance and local index.
type WordResult struct {
	UtteranceNumber       int     `json:"utterance_number"`
	WordIndex             int     `json:"word_index"`
	WordData              Word    `json:"word_data"`
	SegmentData           Segment `json:"segment_data"`
	TotalWordsInUtterance int     `json:"total_words_in_utterance"`
}

// RangeResult is an inclusive, clamped run of words within one utterance.
type RangeResult struct {
	StartWindow     int      `json:"start_window"`
	EndWindow       int      `json:"end_window"`
	UtteranceNumber int      `json:"utterance_number"`
	Words           []Word   `json:"words"`
	SegmentData     Segment  `json:"segment_data"`
	WordCount       int      `json:"word_count"`
	TimeSpan        TimeSpan `json:"time_span"`
}

// UtteranceResult is an utterance with all of its words.
type UtteranceResult struct {
	UtteranceNumber int     `json:"utterance_number"`
	SegmentData     Segment `json:"segment_data"`
	Words           []Word  `json:"words"`
	WordCount       int     `json:"word_count"`
	Duration        float64 `json:"duration"`
}

// WordMatch is one hit of SearchWords.
type WordMatch struct {
	UtteranceNumber int    `json:"utterance_number"`
	WordIndex       int    `json:"word_index"`
	WordData        Word   `json:"word_data"`
	MatchText       string `json:"match_text"`
}

// Word returns the word at index within an utterance. ok is false for an
// unknown utterance or an index outside [0, count).
func (idx *Index) Word(utterance, index int) (WordResult, bool) {
	words, ok := idx.UtteranceWords(utterance)
	if !ok || index < 0 || index >= len(words) {
		return WordResult{}, false
	}
	seg, _ := idx.Segment(utterance)
	return WordResult{
		UtteranceNumber:       utterance,
		WordIndex:             index,
		WordData:              words[index],
		SegmentData:           seg,
		TotalWordsInUtterance: len(words),
	}, true
}

// WordRange returns words start..end (inclusive) of an utterance. start is
// clamped to 0 and end to count-1; an empty clamped range is not found.
func (idx *Index) WordRange(utterance, start, end int) (RangeResult, bool) {
	words, ok := idx.UtteranceWords(utterance)
	if !ok {
		return RangeResult{}, false
	}
	start = max(0, start)
	end = min(len(words)-1, end)
	if start > end {
		return RangeResult{}, false
	}

	sub := words[start : end+1]
	seg, _ := idx.Segment(utterance)
	return RangeResult{
		StartWindow:     start,
		EndWindow:       end,
		UtteranceNumber: utterance,
		Words:           sub,
		SegmentData:     seg,
		WordCount:       len(sub),
		TimeSpan:        spanOf(sub),
	}, true
}

// Utterance returns every word of an utterance with its segment record. An
// utterance with no word rows is not found, the same as Word and WordRange.
func (idx *Index) Utterance(utterance int) (UtteranceResult, bool) {
	words, ok := idx.UtteranceWords(utterance)
	if !ok || len(words) == 0 {
		return UtteranceResult{}, false
	}
	seg, _ := idx.Segment(utterance)
	return UtteranceResult{
		UtteranceNumber: utterance,
		SegmentData:     seg,
		Words:           words,
		WordCount:       len(words),
		Duration:        valueOr(seg.End, 0) - valueOr(seg.Start, 0),
	}, true
}

// SearchWords scans every word linked to an utterance for a substring. Case is
// folded unless caseSensitive is set. An empty text matches every word.
// Results run in utterance id order, then in-utterance order.
func (idx *Index) SearchWords(text string, caseSensitive bool) []WordMatch {
	term := text
	if !caseSensitive {
		term = strings.ToLower(text)
	}

	var out []WordMatch
	for id, positions := range idx.byUtterance {
		for i, p := range positions {
			w := idx.words[p]
			candidate := w.Word
			if !caseSensitive {
				candidate = strings.ToLower(candidate)
			}
			if strings.Contains(candidate, term) {
				out = append(out, WordMatch{
					UtteranceNumber: id,
					WordIndex:       i,
					WordData:        w,
					MatchText:       term,
				})
			}
		}
	}
	return out
}

// WordsInTimeRange returns words lying entirely inside [start, end], sorted by
// start time. Words without both timestamps never qualify.
func (idx *Index) WordsInTimeRange(start, end float64) []Word {
	if start > end {
		return nil
	}
	var out []Word
	for _, w := range idx.words {
		if w.Start == nil || w.End == nil {
			continue
		}
		if *w.Start >= start && *w.End <= end {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Start < *out[j].Start })
	return out
}

// Stats summarizes the index. Load-time metadata keys are merged last and
// win over computed ones.
func (idx *Index) Stats() map[string]any {
	seen := make(map[string]struct{})
	speakers := []string{}
	var sum float64
	var n int
	for _, w := range idx.words {
		if _, ok := seen[w.Speaker]; !ok {
			seen[w.Speaker] = struct{}{}
			speakers = append(speakers, w.Speaker)
		}
		if w.Confidence != nil {
			sum += *w.Confidence
			n++
		}
	}
	sort.Strings(speakers)

	avg := 0.0
	if n > 0 {
		avg = sum / float64(n)
	}

	duration, ok := idx.metadata["duration"]
	if !ok {
		duration = 0
	}

	stats := map[string]any{
		"total_utterances":   len(idx.utterances),
		"total_words":        len(idx.words),
		"total_speakers":     len(speakers),
		"speakers":           speakers,
		"average_confidence": avg,
		"duration":           duration,
	}
	for k, v := range idx.metadata {
		stats[k] = v
	}
	return stats
}

func spanOf(words []Word) TimeSpan {
	if len(words) == 0 {
		return TimeSpan{}
	}
	start := valueOr(words[0].Start, 0)
	end := valueOr(words[len(words)-1].End, 0)
	return TimeSpan{Start: start, End: end, Duration: end - start}
}
