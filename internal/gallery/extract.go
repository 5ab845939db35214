package gallery

import (
	"regexp"
	"strings"
)

// IDLength is the fixed length of a platform video identifier.
const IDLength = 11

var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
}

var idShape = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractID returns the first identifier matched by the authoring URL shapes
// (watch, short link, shorts path) and then the embed shape.
func ExtractID(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ClassifyType is a plain substring test on the source URL.
func ClassifyType(url string) Type {
	if strings.Contains(url, "/shorts/") {
		return TypeShorts
	}
	return TypeVideo
}

// ValidID reports whether id has the platform identifier shape.
func ValidID(id string) bool {
	return idShape.MatchString(id)
}
