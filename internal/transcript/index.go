// Package transcript holds the in-memory transcript index: the typed row
// model, the utterance/word cross references built from it, and the read-only
// lookups served over a built Index.
//
// An Index is immutable once Build returns and may be shared by any number of
// goroutines. Reloading a transcript means building a new Index and swapping
// the reference; see the ingest package.
package transcript

import (
	"maps"
	"sort"
	"time"
)

// Segment is a segment row tagged with its utterance id. UtteranceNumber is
// nil when the segment text is empty after normalization.
type Segment struct {
	Row
	UtteranceNumber *int `json:"utterance_number"`
}

// Word is a word row tagged with its utterance id. UtteranceNumber is nil when
// the word's text matched no segment.
type Word struct {
	Row
	UtteranceNumber *int `json:"utterance_number"`
}

// Index is a built transcript. The zero value is not usable; call Build.
type Index struct {
	version  uint64
	loadedAt time.Time
	metadata map[string]any

	segments []Segment
	words    []Word // global sequence, ingestion order

	// utterances[id] is the position in segments of the record kept for id.
	utterances []int
	// byUtterance[id] holds positions in words, sorted by word position.
	byUtterance [][]int
}

// Option configures Build.
type Option func(*Index)

// WithMetadata attaches load-time metadata (language, duration, speaker
// roster, ...). The map is copied.
func WithMetadata(md map[string]any) Option {
	return func(idx *Index) {
		if md != nil {
			idx.metadata = maps.Clone(md)
		}
	}
}

// WithVersion stamps the index with a load generation.
func WithVersion(v uint64) Option {
	return func(idx *Index) { idx.version = v }
}

// WithLoadedAt records when the source rows were read.
func WithLoadedAt(t time.Time) Option {
	return func(idx *Index) { idx.loadedAt = t }
}

// Build indexes rows. It never fails: rows that cannot be linked to an
// utterance are kept in the flat lists and left out of utterance lookups.
//
// Utterance ids are assigned 0..U-1 in order of first appearance of each
// distinct normalized segment text. Segments sharing a normalized text
// collapse onto one id and the last of them becomes the id's record.
func Build(rows []Row, opts ...Option) *Index {
	idx := &Index{metadata: map[string]any{}}
	for _, o := range opts {
		o(idx)
	}

	var segRows, wordRows []Row
	for _, r := range rows {
		switch r.Kind {
		case KindSegment:
			segRows = append(segRows, r)
		case KindWord:
			wordRows = append(wordRows, r)
		}
	}

	ids := make(map[string]int)
	for _, r := range segRows {
		key := NormalizeText(r.Text)
		if key == "" {
			continue
		}
		if _, ok := ids[key]; !ok {
			ids[key] = len(ids)
		}
	}

	idx.utterances = make([]int, len(ids))
	idx.segments = make([]Segment, len(segRows))
	for i, r := range segRows {
		seg := Segment{Row: r}
		if id, ok := lookupID(ids, r.Text); ok {
			seg.UtteranceNumber = &id
			idx.utterances[id] = i
		}
		idx.segments[i] = seg
	}

	idx.byUtterance = make([][]int, len(ids))
	idx.words = make([]Word, len(wordRows))
	for i, r := range wordRows {
		w := Word{Row: r}
		if id, ok := lookupID(ids, r.Text); ok {
			w.UtteranceNumber = &id
			idx.byUtterance[id] = append(idx.byUtterance[id], i)
		}
		idx.words[i] = w
	}

	for _, list := range idx.byUtterance {
		sort.SliceStable(list, func(a, b int) bool {
			return positionOf(idx.words[list[a]]) < positionOf(idx.words[list[b]])
		})
	}

	return idx
}

func lookupID(ids map[string]int, text string) (int, bool) {
	key := NormalizeText(text)
	if key == "" {
		return 0, false
	}
	id, ok := ids[key]
	return id, ok
}

// positionOf treats a missing position as 0 for ordering.
func positionOf(w Word) int {
	if w.WordPosition == nil {
		return 0
	}
	return *w.WordPosition
}

// Version is the load generation the index was built for.
func (idx *Index) Version() uint64 { return idx.version }

// LoadedAt is when the source rows were read, if recorded.
func (idx *Index) LoadedAt() time.Time { return idx.loadedAt }

// Metadata returns a copy of the load-time metadata.
func (idx *Index) Metadata() map[string]any { return maps.Clone(idx.metadata) }

// UtteranceCount is the number of distinct utterance ids.
func (idx *Index) UtteranceCount() int { return len(idx.utterances) }

// UtteranceIDs lists every utterance id in ascending order, 0..U-1.
func (idx *Index) UtteranceIDs() []int {
	ids := make([]int, len(idx.utterances))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// WordCount is the length of the global word sequence.
func (idx *Index) WordCount() int { return len(idx.words) }

// Words returns the global word sequence in ingestion order.
func (idx *Index) Words() []Word {
	out := make([]Word, len(idx.words))
	copy(out, idx.words)
	return out
}

// WordAt returns the word at a global sequence position.
func (idx *Index) WordAt(i int) (Word, bool) {
	if i < 0 || i >= len(idx.words) {
		return Word{}, false
	}
	return idx.words[i], true
}

// Segments returns every segment row in ingestion order, linked or not.
func (idx *Index) Segments() []Segment {
	out := make([]Segment, len(idx.segments))
	copy(out, idx.segments)
	return out
}

// Segment returns the record kept for an utterance id.
func (idx *Index) Segment(id int) (Segment, bool) {
	if id < 0 || id >= len(idx.utterances) {
		return Segment{}, false
	}
	return idx.segments[idx.utterances[id]], true
}

// UtteranceWords returns an utterance's words in position order.
func (idx *Index) UtteranceWords(id int) ([]Word, bool) {
	if id < 0 || id >= len(idx.byUtterance) {
		return nil, false
	}
	return idx.collect(idx.byUtterance[id]), true
}

func (idx *Index) collect(positions []int) []Word {
	out := make([]Word, len(positions))
	for i, p := range positions {
		out[i] = idx.words[p]
	}
	return out
}
