package gallery

import (
	"strings"
	"time"
)

type Type string

const (
	TypeVideo  Type = "video"
	TypeShorts Type = "shorts"
)

// Record is one gallery entry. ID is the platform video identifier and doubles
// as the storage key.
type Record struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResolveType maps a raw stored type to its display bucket. Only "shorts" and
// "short" (any case, no surrounding space) land in the shorts bucket.
func ResolveType(raw string) Type {
	switch strings.ToLower(raw) {
	case "shorts", "short":
		return TypeShorts
	default:
		return TypeVideo
	}
}

func DefaultTitle(id string) string {
	return "Video " + id
}

// Normalize fills the defaults a stored record may be missing.
func Normalize(r Record) Record {
	r.Type = ResolveType(string(r.Type))
	if strings.TrimSpace(r.Title) == "" {
		r.Title = DefaultTitle(r.ID)
	}
	return r
}

func (t Type) Label() string {
	if t == TypeShorts {
		return "Short"
	}
	return "Video"
}
