package video

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vidgallery/vidgallery/internal/gallery"
	"github.com/vidgallery/vidgallery/internal/httputil"
)

// playerAllow is the iframe permission list the player needs.
const playerAllow = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share"

var watchPageTemplate = template.Must(template.New("watch").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:type" content="video.other">
    <meta property="og:image" content="{{.ThumbnailURL}}">
    <style nonce="{{.Nonce}}">
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            background: #0a0a0a;
            color: #ffffff;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            min-height: 100vh;
            display: flex;
            flex-direction: column;
            align-items: center;
        }
        .container { max-width: 960px; width: 100%; padding: 2rem 1rem; }
        .player { position: relative; width: 100%; aspect-ratio: 16 / 9; background: #000; border-radius: 8px; overflow: hidden; }
        .player.shorts { aspect-ratio: 9 / 16; max-width: 405px; margin: 0 auto; }
        .player iframe { width: 100%; height: 100%; border: none; }
        h1 { margin-top: 1rem; font-size: 1.5rem; font-weight: 600; }
        .meta { margin-top: 0.5rem; color: #9ca3af; font-size: 0.875rem; }
        .meta a { color: #9ca3af; }
    </style>
</head>
<body>
    <div class="container">
        <div class="player{{if .Shorts}} shorts{{end}}">
            <iframe src="{{.EmbedURL}}" title="YouTube video player" allow="{{.Allow}}" allowfullscreen></iframe>
        </div>
        <h1>{{.Title}}</h1>
        <p class="meta">{{.TypeLabel}} · <a href="{{.WatchURL}}" rel="noopener">Open on YouTube</a> · <a href="/">Back to gallery</a></p>
    </div>
</body>
</html>`))

var notFoundPageTemplate = template.Must(template.New("not-found").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Video not found</title>
    <style nonce="{{.Nonce}}">
        body { background: #0a0a0a; color: #e5e7eb; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; }
        a { color: #9ca3af; }
    </style>
</head>
<body>
    <p>This video could not be found. <a href="/">Back to gallery</a></p>
</body>
</html>`))

type watchPageData struct {
	Nonce        string
	Title        string
	TypeLabel    string
	Shorts       bool
	EmbedURL     string
	WatchURL     string
	ThumbnailURL string
	Allow        string
}

type notFoundPageData struct {
	Nonce string
}

// WatchPage renders a standalone player for one entry. Ids that match the
// identifier shape but are not in the gallery still play, under the default
// title.
func (h *Handler) WatchPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	nonce := httputil.NonceFromContext(r.Context())

	if !gallery.ValidID(id) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		if err := notFoundPageTemplate.Execute(w, notFoundPageData{Nonce: nonce}); err != nil {
			slog.Error("video: render not found page", "error", err)
		}
		return
	}

	rec, ok := h.store.Find(r.Context(), id)
	if !ok {
		rec = gallery.Normalize(gallery.Record{ID: id})
	}

	view := newVideoView(0, rec)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := watchPageTemplate.Execute(w, watchPageData{
		Nonce:        nonce,
		Title:        view.Title,
		TypeLabel:    view.TypeLabel,
		Shorts:       rec.Type == gallery.TypeShorts,
		EmbedURL:     view.EmbedURL,
		WatchURL:     view.WatchURL,
		ThumbnailURL: h.baseURL + "/thumbnails/" + id,
		Allow:        playerAllow,
	}); err != nil {
		slog.Error("video: render watch page", "video_id", id, "error", err)
	}
}
