package video

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vidgallery/vidgallery/internal/gallery"
	"github.com/vidgallery/vidgallery/internal/httputil"
	"github.com/vidgallery/vidgallery/internal/session"
)

type createRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	view, unsubscribe := h.loadView(r.Context())
	defer unsubscribe()

	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	gate := session.FromContext(r.Context())
	if !gate.IsAdmin() {
		writeStoreError(w, "insert", gallery.ErrUnauthorized)
		return
	}

	var req createRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.store.Insert(r.Context(), gate, req.URL, req.Title)
	if err != nil {
		writeStoreError(w, "insert", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, newVideoView(0, rec))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	gate := session.FromContext(r.Context())
	if !gate.IsAdmin() {
		writeStoreError(w, "delete", gallery.ErrUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if !gallery.ValidID(id) {
		writeStoreError(w, "delete", gallery.ErrNotFound)
		return
	}

	if err := h.store.DeleteByValueID(r.Context(), gate, id); err != nil {
		writeStoreError(w, "delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
