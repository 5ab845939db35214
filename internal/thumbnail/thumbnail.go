// Package thumbnail resolves preview images for platform video identifiers.
// Candidates are tried in a fixed order and the first one that loads wins; when
// none load the caller renders a placeholder instead of a broken image.
package thumbnail

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/vidgallery/vidgallery/internal/metrics"
)

const imageHost = "https://img.youtube.com"

var qualityTiers = []string{"hqdefault", "maxresdefault", "sddefault", "mqdefault"}

// Placeholder presentation used when every candidate fails.
const (
	PlaceholderBackground = "#2a2a2a"
	PlaceholderMinHeight  = 200
)

const defaultProbeTimeout = 5 * time.Second

// Candidates returns the four image URLs for id in descending preference.
func Candidates(id string) []string {
	return candidatesOn(imageHost, id)
}

func candidatesOn(host, id string) []string {
	urls := make([]string, len(qualityTiers))
	for i, tier := range qualityTiers {
		urls[i] = fmt.Sprintf("%s/vi/%s/%s.jpg", host, id, tier)
	}
	return urls
}

type State string

const (
	StateLoaded      State = "loaded"
	StatePlaceholder State = "placeholder"
)

type Resolution struct {
	State    State  `json:"state"`
	URL      string `json:"url,omitempty"`
	Attempts int    `json:"attempts"`
}

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Resolver struct {
	client       Doer
	host         string
	probeTimeout time.Duration
}

func NewResolver(client Doer) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{client: client, host: imageHost, probeTimeout: defaultProbeTimeout}
}

// SetHost points the resolver at a different image host. Used by tests.
func (r *Resolver) SetHost(host string) {
	r.host = host
}

func (r *Resolver) SetProbeTimeout(d time.Duration) {
	r.probeTimeout = d
}

// Resolve walks the candidate chain once. It stops at the first candidate that
// answers 2xx and never touches the remaining ones.
func (r *Resolver) Resolve(ctx context.Context, id string) Resolution {
	attempts := 0
	for _, u := range candidatesOn(r.host, id) {
		attempts++
		if r.probe(ctx, u) {
			metrics.ThumbnailResolutionsTotal.WithLabelValues(string(StateLoaded)).Inc()
			return Resolution{State: StateLoaded, URL: u, Attempts: attempts}
		}
		if ctx.Err() != nil {
			break
		}
	}
	metrics.ThumbnailResolutionsTotal.WithLabelValues(string(StatePlaceholder)).Inc()
	return Resolution{State: StatePlaceholder, Attempts: attempts}
}

func (r *Resolver) probe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		slog.Debug("thumbnail: probe failed", "url", url, "error", err)
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// PlaceholderSVG is the non-image stand-in served once the chain is exhausted.
func PlaceholderSVG(title string) []byte {
	return []byte(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="320" height="%d" viewBox="0 0 320 %d">`+
		`<rect width="100%%" height="100%%" fill="%s"/>`+
		`<text x="50%%" y="50%%" fill="#9ca3af" font-family="sans-serif" font-size="14" text-anchor="middle" dominant-baseline="middle">%s</text>`+
		`</svg>`, PlaceholderMinHeight, PlaceholderMinHeight, PlaceholderBackground, html.EscapeString(title)))
}
