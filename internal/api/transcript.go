package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snarg/speech-mine/internal/transcript"
)

type TranscriptHandler struct {
	source IndexSource
}

func NewTranscriptHandler(source IndexSource) *TranscriptHandler {
	return &TranscriptHandler{source: source}
}

func (h *TranscriptHandler) Routes(r chi.Router) {
	r.Get("/utterances/{id}", h.GetUtterance)
	r.Get("/utterances/{id}/words", h.GetWordRange)
	r.Get("/utterances/{id}/words/{index}", h.GetWord)
	r.Get("/words", h.ListWordsInTimeRange)
	r.Get("/words/search", h.SearchWords)
	r.Get("/stats", h.GetStats)
	r.Get("/export", h.Export)
}

// index returns the live index, writing a 503 when none is loaded.
func (h *TranscriptHandler) index(w http.ResponseWriter) *transcript.Index {
	idx := h.source.Current()
	if idx == nil {
		WriteError(w, http.StatusServiceUnavailable, "no transcript loaded")
	}
	return idx
}

// GetUtterance returns an utterance with all of its words.
func (h *TranscriptHandler) GetUtterance(w http.ResponseWriter, r *http.Request) {
	id, err := PathInt(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid utterance ID")
		return
	}
	idx := h.index(w)
	if idx == nil {
		return
	}
	u, ok := idx.Utterance(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "utterance not found")
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

// GetWord returns one word of an utterance by its in-utterance index.
func (h *TranscriptHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	id, err := PathInt(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid utterance ID")
		return
	}
	index, err := PathInt(r, "index")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid word index")
		return
	}
	idx := h.index(w)
	if idx == nil {
		return
	}
	word, ok := idx.Word(id, index)
	if !ok {
		WriteError(w, http.StatusNotFound, "word not found")
		return
	}
	WriteJSON(w, http.StatusOK, word)
}

// GetWordRange returns words start..end of an utterance, clamped to its
// bounds. Both ends default to the whole utterance.
func (h *TranscriptHandler) GetWordRange(w http.ResponseWriter, r *http.Request) {
	id, err := PathInt(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid utterance ID")
		return
	}
	start, end := 0, int(^uint(0)>>1)
	if v := r.URL.Query().Get("start"); v != "" {
		n, ok := QueryInt(r, "start")
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid start")
			return
		}
		start = n
	}
	if v := r.URL.Query().Get("end"); v != "" {
		n, ok := QueryInt(r, "end")
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid end")
			return
		}
		end = n
	}
	idx := h.index(w)
	if idx == nil {
		return
	}
	rng, ok := idx.WordRange(id, start, end)
	if !ok {
		WriteError(w, http.StatusNotFound, "word range not found")
		return
	}
	WriteJSON(w, http.StatusOK, rng)
}

// SearchWords does a substring scan over word text.
func (h *TranscriptHandler) SearchWords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	caseSensitive, _ := QueryBool(r, "case_sensitive")
	idx := h.index(w)
	if idx == nil {
		return
	}
	matches := idx.SearchWords(q, caseSensitive)
	if matches == nil {
		matches = []transcript.WordMatch{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
		"total":   len(matches),
	})
}

// ListWordsInTimeRange returns words lying entirely inside [start_time, end_time].
func (h *TranscriptHandler) ListWordsInTimeRange(w http.ResponseWriter, r *http.Request) {
	start, ok := QueryFloat(r, "start_time")
	if !ok {
		WriteError(w, http.StatusBadRequest, "start_time is required")
		return
	}
	end, ok := QueryFloat(r, "end_time")
	if !ok {
		WriteError(w, http.StatusBadRequest, "end_time is required")
		return
	}
	idx := h.index(w)
	if idx == nil {
		return
	}
	words := idx.WordsInTimeRange(start, end)
	if words == nil {
		words = []transcript.Word{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"words": words,
		"total": len(words),
	})
}

// GetStats returns index statistics merged with load-time metadata.
func (h *TranscriptHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	idx := h.index(w)
	if idx == nil {
		return
	}
	WriteJSON(w, http.StatusOK, idx.Stats())
}

// Export projects the index into one of the export views.
func (h *TranscriptHandler) Export(w http.ResponseWriter, r *http.Request) {
	view, _ := QueryString(r, "view")
	idx := h.index(w)
	if idx == nil {
		return
	}
	WriteJSON(w, http.StatusOK, idx.Export(view))
}
