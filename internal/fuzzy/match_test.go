package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snarg/speech-mine/internal/transcript"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"hello", "hello", 1},
		{"", "", 1},
		{"abc", "", 0},
		{"abc", "xyz", 0},
		{"kitten", "sitting", 8.0 / 13.0},
		{"helo world", "hello world", 20.0 / 21.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9, "Ratio(%q, %q)", tt.a, tt.b)
	}
}

func TestMatch_RoundTrip(t *testing.T) {
	got := Match([]string{"hello", "world"}, "hello world", WithSimilarityRange(0.9, 1.0))
	require.Len(t, got, 1)
	assert.Equal(t, Span{Start: 0, End: 1, Score: 1.0}, got[0])
}

func TestMatch_SingleWordExact(t *testing.T) {
	got := Match([]string{"apple", "banana", "cherry"}, "banana")
	require.NotEmpty(t, got)
	assert.Equal(t, Span{Start: 1, End: 1, Score: 1.0}, got[0])

	for _, s := range got {
		assert.Equal(t, s.Start, s.End, "single-word queries yield single-word spans")
	}
}

func TestMatch_ExactPhraseInsideSequence(t *testing.T) {
	words := []string{"the", "quick", "brown", "fox", "jumps"}
	got := Match(words, "quick brown", WithSimilarityRange(0.5, 1.0))
	require.NotEmpty(t, got)
	assert.Equal(t, 1, got[0].Start)
	assert.Equal(t, 2, got[0].End)
	assert.Equal(t, 1.0, got[0].Score)
}

func TestMatch_Typo(t *testing.T) {
	words := []string{"hello", "world", "testing", "fuzzy", "matching"}
	got := Match(words, "helo world")
	require.NotEmpty(t, got)
	assert.Equal(t, 0, got[0].Start)
	assert.Equal(t, 1, got[0].End)
	assert.Greater(t, got[0].Score, 0.7)
}

func TestMatch_PrefersShortestOnTie(t *testing.T) {
	// The exact single word must win over the two-word windows around it.
	got := Match([]string{"x", "target", "y"}, "target", WithTopK(1))
	require.Len(t, got, 1)
	assert.Equal(t, Span{Start: 1, End: 1, Score: 1.0}, got[0])
}

func TestMatch_EmptyInputs(t *testing.T) {
	words := []string{"hello", "world"}
	assert.Empty(t, Match(nil, "hello"))
	assert.Empty(t, Match([]string{}, "hello"))
	assert.Empty(t, Match(words, ""))
	assert.Empty(t, Match(words, "   \t"))
}

func TestMatch_NoCandidatesInRange(t *testing.T) {
	got := Match([]string{"completely", "different", "words"}, "hello world", WithSimilarityRange(0.95, 1.0))
	assert.Empty(t, got)
}

func TestMatch_QueryLongerThanSequence(t *testing.T) {
	got := Match([]string{"short", "list"}, "this is a much longer query than available")
	assert.Empty(t, got)
}

func TestMatch_TopK(t *testing.T) {
	words := make([]string, 10)
	for i := range words {
		words[i] = "test"
	}

	k3 := Match(words, "test", WithTopK(3))
	k5 := Match(words, "test", WithTopK(5))
	all := Match(words, "test", WithTopK(100))

	assert.Len(t, k3, 3)
	assert.Len(t, k5, 5)
	assert.Len(t, all, 10)
	assert.Empty(t, Match(words, "test", WithTopK(0)))
}

func TestMatch_Properties(t *testing.T) {
	words := []string{
		"so", "the", "meeting", "is", "at", "noon", "and", "the", "meting",
		"room", "is", "booked", "for", "the", "meeting", "at", "noon",
	}
	queries := []string{"meeting at noon", "room", "the meeting", "booked for the"}

	for _, q := range queries {
		got := Match(words, q, WithTopK(50))

		for i := range got {
			for j := i + 1; j < len(got); j++ {
				assert.False(t, got[i].Overlaps(got[j]), "query %q: %v overlaps %v", q, got[i], got[j])
			}
			if i > 0 {
				assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score, "query %q: not sorted", q)
			}
			assert.GreaterOrEqual(t, got[i].Start, 0)
			assert.Less(t, got[i].End, len(words))
		}

		narrow := Match(words, q, WithSimilarityRange(0.9, 1.0), WithTopK(50))
		wide := Match(words, q, WithSimilarityRange(0.3, 1.0), WithTopK(50))
		assert.LessOrEqual(t, len(narrow), len(wide), "query %q", q)
		for _, s := range narrow {
			assert.GreaterOrEqual(t, s.Score, 0.9)
			assert.LessOrEqual(t, s.Score, 1.0)
		}
	}
}

func TestMatch_OverlapRemoval(t *testing.T) {
	got := Match([]string{"hello", "world", "hello", "universe"}, "hello", WithSimilarityRange(0.8, 1.0))
	require.Len(t, got, 2)
	assert.Equal(t, Span{Start: 0, End: 0, Score: 1.0}, got[0])
	assert.Equal(t, Span{Start: 2, End: 2, Score: 1.0}, got[1])
}

func TestMatch_ScoreDescending(t *testing.T) {
	got := Match([]string{"hello", "helo", "help", "world"}, "hello")
	require.GreaterOrEqual(t, len(got), 2)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.Equal(t, 0, got[0].Start)
}

func TestMatchWords_UsesWordField(t *testing.T) {
	words := []transcript.Word{
		{Row: transcript.Row{Kind: transcript.KindWord, Text: "Hello", Word: "hello"}},
		{Row: transcript.Row{Kind: transcript.KindWord, Text: "World", Word: "world"}},
	}
	got := MatchWords(words, "hello world")
	require.NotEmpty(t, got)
	assert.Equal(t, Span{Start: 0, End: 1, Score: 1.0}, got[0])
}
