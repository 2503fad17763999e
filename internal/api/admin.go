package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	reloader Reloader
}

func NewAdminHandler(reloader Reloader) *AdminHandler {
	return &AdminHandler{reloader: reloader}
}

// Reload rebuilds the index from its source files and swaps it in. On
// failure the previous index keeps serving.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	idx, err := h.reloader.Reload(r.Context())
	if err != nil {
		WriteErrorDetail(w, http.StatusInternalServerError, "reload failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"version":    idx.Version(),
		"loaded_at":  idx.LoadedAt(),
		"utterances": idx.UtteranceCount(),
		"words":      idx.WordCount(),
	})
}

// Routes registers admin routes on the given router.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Post("/reload", h.Reload)
}
