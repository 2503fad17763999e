package fuzzy

import "github.com/snarg/speech-mine/internal/transcript"

// MatchWords runs Match over the word text of a transcript's global sequence.
// Span positions index into words.
func MatchWords(words []transcript.Word, query string, opts ...Option) []Span {
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Word
	}
	return Match(texts, query, opts...)
}
