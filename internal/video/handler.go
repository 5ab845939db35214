// Package video is the gallery controller: the gallery page, its JSON API,
// the player page and thumbnail resolution.
package video

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vidgallery/vidgallery/internal/gallery"
	"github.com/vidgallery/vidgallery/internal/httputil"
	"github.com/vidgallery/vidgallery/internal/session"
	"github.com/vidgallery/vidgallery/internal/store"
	"github.com/vidgallery/vidgallery/internal/thumbnail"
)

type Store interface {
	LoadAll(ctx context.Context) store.Snapshot
	Find(ctx context.Context, id string) (gallery.Record, bool)
	Insert(ctx context.Context, authz store.Authorizer, rawURL, title string) (gallery.Record, error)
	DeleteByValueID(ctx context.Context, authz store.Authorizer, id string) error
}

type ThumbnailResolver interface {
	Resolve(ctx context.Context, id string) thumbnail.Resolution
}

type Handler struct {
	store    Store
	resolver ThumbnailResolver
	baseURL  string
}

func NewHandler(s Store, resolver ThumbnailResolver, baseURL string) *Handler {
	return &Handler{store: s, resolver: resolver, baseURL: strings.TrimRight(baseURL, "/")}
}

// videoView is one card in display order.
type videoView struct {
	Order      int      `json:"order"`
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	TypeLabel  string   `json:"typeLabel"`
	Title      string   `json:"title"`
	URL        string   `json:"url,omitempty"`
	EmbedURL   string   `json:"embedUrl"`
	WatchURL   string   `json:"watchUrl"`
	Thumbnails []string `json:"thumbnails"`
}

type galleryView struct {
	Videos        []videoView  `json:"videos"`
	Source        store.Source `json:"source"`
	Fallback      bool         `json:"fallback"`
	Authenticated bool         `json:"authenticated"`
	Admin         bool         `json:"admin"`
	Email         string       `json:"email,omitempty"`
}

// applySession keeps the admin affordances in step with the gate.
func (v *galleryView) applySession(s session.State) {
	v.Authenticated = s.Status == session.Authenticated
	v.Admin = s.Admin
	v.Email = ""
	if s.Principal != nil {
		v.Email = s.Principal.Email
	}
}

func newVideoView(order int, rec gallery.Record) videoView {
	title := rec.Title
	if title == "" {
		title = "Untitled Video"
	}
	kind := gallery.ResolveType(string(rec.Type))
	return videoView{
		Order:      order,
		ID:         rec.ID,
		Type:       string(kind),
		TypeLabel:  kind.Label(),
		Title:      title,
		URL:        rec.URL,
		EmbedURL:   gallery.EmbedURL(rec.ID),
		WatchURL:   gallery.WatchURL(rec.ID),
		Thumbnails: thumbnail.Candidates(rec.ID),
	}
}

// loadView builds the organized gallery and subscribes to the request's gate
// for the session-dependent fields. The caller must call the returned func.
func (h *Handler) loadView(ctx context.Context) (*galleryView, func()) {
	snap := h.store.LoadAll(ctx)
	organized := gallery.Organize(snap.Records)

	view := &galleryView{
		Videos:   make([]videoView, len(organized)),
		Source:   snap.Source,
		Fallback: snap.Source.IsFallback(),
	}
	for i, rec := range organized {
		view.Videos[i] = newVideoView(i, rec)
	}

	unsubscribe := session.FromContext(ctx).Subscribe(view.applySession)
	return view, unsubscribe
}

// writeStoreError maps the store's error taxonomy onto HTTP. Causes are
// logged by the store; only the user-facing message leaves the server.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, gallery.ErrUnauthorized):
		msg := gallery.MsgUnauthorizedAdd
		if op == "delete" {
			msg = gallery.MsgUnauthorizedDel
		}
		httputil.WriteError(w, http.StatusForbidden, msg)
	case errors.Is(err, gallery.ErrInvalidInput):
		httputil.WriteError(w, http.StatusBadRequest, invalidInputMessage(err))
	case errors.Is(err, gallery.ErrDuplicate):
		httputil.WriteError(w, http.StatusConflict, gallery.MsgDuplicate)
	case errors.Is(err, gallery.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, gallery.MsgNotFound)
	default:
		slog.Error("video: store operation failed", "op", op, "error", err)
		msg := gallery.MsgAddFailed
		if op == "delete" {
			msg = gallery.MsgDeleteFailed
		}
		httputil.WriteError(w, http.StatusInternalServerError, msg)
	}
}

// invalidInputMessage surfaces field-length detail when the store attached
// one and the generic URL message otherwise.
func invalidInputMessage(err error) string {
	if errors.Is(err, gallery.ErrInvalidInput) && err.Error() != gallery.ErrInvalidInput.Error() {
		if _, detail, ok := strings.Cut(err.Error(), ": "); ok {
			return detail
		}
	}
	return gallery.MsgInvalidInput
}
