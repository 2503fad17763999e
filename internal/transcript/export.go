package transcript

// Export views understood by Index.Export.
const (
	ViewWords      = "words"
	ViewSegments   = "segments"
	ViewUtterances = "utterances"
	ViewCombined   = "json"
)

// UtteranceExport is one entry of the utterances view.
type UtteranceExport struct {
	UtteranceNumber int     `json:"utterance_number"`
	Segment         Segment `json:"segment"`
	Words           []Word  `json:"words"`
}

// CombinedExport bundles metadata, utterances and stats.
type CombinedExport struct {
	Metadata   map[string]any    `json:"metadata"`
	Utterances []UtteranceExport `json:"utterances"`
	Stats      map[string]any    `json:"stats"`
}

// Export projects the index into one of the named views. Any view name it
// does not recognize yields the combined view.
func (idx *Index) Export(view string) any {
	switch view {
	case ViewWords:
		return idx.Words()
	case ViewSegments:
		return idx.Segments()
	case ViewUtterances:
		return idx.exportUtterances()
	default:
		return CombinedExport{
			Metadata:   idx.Metadata(),
			Utterances: idx.exportUtterances(),
			Stats:      idx.Stats(),
		}
	}
}

func (idx *Index) exportUtterances() []UtteranceExport {
	out := make([]UtteranceExport, len(idx.utterances))
	for id := range idx.utterances {
		seg, _ := idx.Segment(id)
		words, _ := idx.UtteranceWords(id)
		out[id] = UtteranceExport{UtteranceNumber: id, Segment: seg, Words: words}
	}
	return out
}
