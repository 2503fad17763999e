package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snarg/speech-mine/internal/search"
)

type SearchHandler struct {
	svc         *search.Service
	defaultTopK int
}

func NewSearchHandler(svc *search.Service, defaultTopK int) *SearchHandler {
	if defaultTopK <= 0 {
		defaultTopK = search.DefaultTopK
	}
	return &SearchHandler{svc: svc, defaultTopK: defaultTopK}
}

func (h *SearchHandler) Routes(r chi.Router) {
	r.Get("/search", h.SearchQuery)
	r.Post("/search", h.SearchBody)
}

// searchBody is the POST /search request. Omitted fields take defaults.
type searchBody struct {
	Query         string   `json:"query"`
	MinSimilarity *float64 `json:"min_similarity"`
	MaxSimilarity *float64 `json:"max_similarity"`
	TopK          *int     `json:"top_k"`
	OutputType    string   `json:"output_type"`
}

// SearchQuery runs a fuzzy search from query parameters:
// q, min_similarity, max_similarity, top_k, output_type.
func (h *SearchHandler) SearchQuery(w http.ResponseWriter, r *http.Request) {
	req := h.newRequest(r.URL.Query().Get("q"))
	q := r.URL.Query()
	if q.Get("min_similarity") != "" {
		v, ok := QueryFloat(r, "min_similarity")
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid min_similarity")
			return
		}
		req.MinSimilarity = v
	}
	if q.Get("max_similarity") != "" {
		v, ok := QueryFloat(r, "max_similarity")
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid max_similarity")
			return
		}
		req.MaxSimilarity = v
	}
	if q.Get("top_k") != "" {
		v, ok := QueryInt(r, "top_k")
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid top_k")
			return
		}
		req.TopK = v
	}
	if v, ok := QueryString(r, "output_type"); ok {
		req.OutputType = v
	}
	h.run(w, r, req)
}

// SearchBody runs a fuzzy search from a JSON body.
func (h *SearchHandler) SearchBody(w http.ResponseWriter, r *http.Request) {
	var body searchBody
	if err := DecodeJSON(r, &body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req := h.newRequest(body.Query)
	if body.MinSimilarity != nil {
		req.MinSimilarity = *body.MinSimilarity
	}
	if body.MaxSimilarity != nil {
		req.MaxSimilarity = *body.MaxSimilarity
	}
	if body.TopK != nil {
		req.TopK = *body.TopK
	}
	if body.OutputType != "" {
		req.OutputType = body.OutputType
	}
	h.run(w, r, req)
}

func (h *SearchHandler) newRequest(query string) search.Request {
	req := search.NewRequest(query)
	req.TopK = h.defaultTopK
	return req
}

func (h *SearchHandler) run(w http.ResponseWriter, r *http.Request, req search.Request) {
	resp, err := h.svc.Search(r.Context(), req)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, resp)
	case errors.Is(err, search.ErrInvalidSimilarityRange), errors.Is(err, search.ErrInvalidOutputType),
		errors.Is(err, search.ErrInvalidTopK):
		WriteErrorDetail(w, http.StatusBadRequest, "invalid search parameters", err.Error())
	case errors.Is(err, search.ErrNoIndex):
		WriteError(w, http.StatusServiceUnavailable, "no transcript loaded")
	default:
		WriteError(w, http.StatusInternalServerError, "search failed")
	}
}
