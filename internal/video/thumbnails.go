package video

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vidgallery/vidgallery/internal/gallery"
	"github.com/vidgallery/vidgallery/internal/httputil"
	"github.com/vidgallery/vidgallery/internal/thumbnail"
)

type thumbnailResponse struct {
	ID         string               `json:"id"`
	Candidates []string             `json:"candidates"`
	Resolution thumbnail.Resolution `json:"resolution"`
}

// Thumbnail redirects to the first candidate image that exists, or serves the
// placeholder when none does.
func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !gallery.ValidID(id) {
		http.NotFound(w, r)
		return
	}

	res := h.resolver.Resolve(r.Context(), id)
	if res.State == thumbnail.StateLoaded {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.Redirect(w, r, res.URL, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(thumbnail.PlaceholderSVG(gallery.DefaultTitle(id))); err != nil {
		slog.Warn("video: write placeholder", "video_id", id, "error", err)
	}
}

func (h *Handler) ThumbnailJSON(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !gallery.ValidID(id) {
		httputil.WriteError(w, http.StatusNotFound, "unknown video id")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, thumbnailResponse{
		ID:         id,
		Candidates: thumbnail.Candidates(id),
		Resolution: h.resolver.Resolve(r.Context(), id),
	})
}
