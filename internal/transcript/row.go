package transcript

import (
	"strconv"
	"strings"
)

// Kind classifies a transcript row.
type Kind string

const (
	KindSegment Kind = "segment"
	KindWord    Kind = "word"
)

// Columns is the CSV header produced by the diarization step, in order.
var Columns = []string{
	"type", "speaker", "start", "end", "text",
	"word", "word_position", "confidence", "overlap_duration",
}

// Row is one record of the flat transcript. Numeric fields are nil when the
// source cell was empty or failed to parse.
type Row struct {
	Kind            Kind     `json:"type"`
	Speaker         string   `json:"speaker"`
	Start           *float64 `json:"start"`
	End             *float64 `json:"end"`
	Text            string   `json:"text"`
	Word            string   `json:"word"`
	WordPosition    *int     `json:"word_position"`
	Confidence      *float64 `json:"confidence"`
	OverlapDuration *float64 `json:"overlap_duration"`
}

// ParseRow converts a header-keyed record into a Row. It returns false when the
// record has no recognizable kind; every other defect is absorbed by leaving
// the affected numeric field nil.
func ParseRow(record map[string]string) (Row, bool) {
	kind := Kind(strings.TrimSpace(record["type"]))
	if kind != KindSegment && kind != KindWord {
		return Row{}, false
	}
	return Row{
		Kind:            kind,
		Speaker:         record["speaker"],
		Start:           parseFloat(record["start"]),
		End:             parseFloat(record["end"]),
		Text:            record["text"],
		Word:            record["word"],
		WordPosition:    parseInt(record["word_position"]),
		Confidence:      parseFloat(record["confidence"]),
		OverlapDuration: parseFloat(record["overlap_duration"]),
	}, true
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// NormalizeText is the join key between words and utterances: surrounding
// whitespace is dropped and internal runs collapse to a single space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// valueOr dereferences p, falling back to def when p is nil.
func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
