package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vidgallery/vidgallery/internal/httputil"
)

// Origins the gallery page loads third-party content from.
const (
	imageOrigin  = "https://img.youtube.com"
	playerOrigin = "https://www.youtube.com"
)

type SecurityConfig struct {
	BaseURL string
	// FrameAncestors overrides who may embed the pages; empty means 'self'.
	FrameAncestors string
}

func securityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	strictTransport := strings.HasPrefix(cfg.BaseURL, "https://")

	frameAncestors := "'self'"
	if cfg.FrameAncestors != "" {
		frameAncestors = cfg.FrameAncestors
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := httputil.GenerateNonce()
			ctx := httputil.ContextWithNonce(r.Context(), nonce)

			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), fullscreen=(self \""+playerOrigin+"\")")

			csp := fmt.Sprintf(
				"default-src 'self'; img-src 'self' data: %s; frame-src %s; script-src 'self' 'nonce-%s'; style-src 'self' 'nonce-%s'; connect-src 'self'; frame-ancestors %s;",
				imageOrigin, playerOrigin, nonce, nonce, frameAncestors,
			)
			w.Header().Set("Content-Security-Policy", csp)

			if strictTransport {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
