package gallery

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractID_AuthoringShapes(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"short link", "https://youtu.be/aT3UkaEc-FA", "aT3UkaEc-FA"},
		{"watch", "https://www.youtube.com/watch?v=H2DdT9jxkq4", "H2DdT9jxkq4"},
		{"watch with params", "https://youtube.com/watch?v=H2DdT9jxkq4&t=42s", "H2DdT9jxkq4"},
		{"shorts", "https://youtube.com/shorts/u-4QAEbLzDc", "u-4QAEbLzDc"},
		{"shorts with query", "https://www.youtube.com/shorts/5GB-vBxK8B8?feature=share", "5GB-vBxK8B8"},
		{"embed", "https://www.youtube.com/embed/oDzpjwDEGI0", "oDzpjwDEGI0"},
		{"underscore", "https://youtu.be/abc_def-123", "abc_def-123"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractID(tc.url)
			if !ok {
				t.Fatalf("expected %q to match", tc.url)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractID_NoMatch(t *testing.T) {
	for _, url := range []string{
		"",
		"https://example.com/x",
		"https://youtu.be/short",
		"not a url at all",
		"https://vimeo.com/123456789",
	} {
		if id, ok := ExtractID(url); ok {
			t.Errorf("expected no match for %q, got %q", url, id)
		}
	}
}

func TestClassifyType(t *testing.T) {
	if got := ClassifyType("https://youtube.com/shorts/u7EmRd0GLhQ"); got != TypeShorts {
		t.Errorf("expected shorts, got %q", got)
	}
	if got := ClassifyType("https://youtu.be/aT3UkaEc-FA"); got != TypeVideo {
		t.Errorf("expected video, got %q", got)
	}
	if got := ClassifyType("https://example.com/shorts/anything"); got != TypeShorts {
		t.Errorf("substring test should classify any /shorts/ URL as shorts, got %q", got)
	}
	if got := ClassifyType("https://youtube.com/shorts"); got != TypeVideo {
		t.Errorf("expected video without trailing slash, got %q", got)
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestOrganize_StablePartition(t *testing.T) {
	in := []Record{
		{ID: "A", Type: TypeShorts},
		{ID: "B", Type: TypeVideo},
		{ID: "C", Type: TypeShorts},
		{ID: "D"},
	}

	got := ids(Organize(in))
	want := []string{"B", "D", "A", "C"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("organize order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrganize_CaseInsensitiveAndUnknownTypes(t *testing.T) {
	in := []Record{
		{ID: "s1", Type: "SHORT"},
		{ID: "v1", Type: "clip"},
		{ID: "s2", Type: "Shorts"},
		{ID: "v2", Type: "VIDEO"},
	}

	got := ids(Organize(in))
	want := []string{"v1", "v2", "s1", "s2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("organize order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrganize_DoesNotMutateInput(t *testing.T) {
	in := []Record{{ID: "A", Type: TypeShorts}, {ID: "B", Type: TypeVideo}}
	_ = Organize(in)
	if in[0].ID != "A" || in[1].ID != "B" {
		t.Errorf("input reordered: %v", ids(in))
	}
}

func TestOrganize_Empty(t *testing.T) {
	if got := Organize(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	got := Normalize(Record{ID: "aT3UkaEc-FA", Type: "weird"})
	if got.Type != TypeVideo {
		t.Errorf("expected video type, got %q", got.Type)
	}
	if got.Title != "Video aT3UkaEc-FA" {
		t.Errorf("expected default title, got %q", got.Title)
	}

	got = Normalize(Record{ID: "u7EmRd0GLhQ", Type: "Short", Title: "Kept"})
	if got.Type != TypeShorts || got.Title != "Kept" {
		t.Errorf("unexpected normalized record: %+v", got)
	}
}

func TestFallbackRecords_ReturnsCopy(t *testing.T) {
	first := FallbackRecords()
	if len(first) != 18 {
		t.Fatalf("expected 18 fallback records, got %d", len(first))
	}
	first[0].Title = "changed"

	second := FallbackRecords()
	if second[0].Title != "Ancient Art Animation 1" {
		t.Errorf("fallback list was mutated through a returned copy")
	}
	for _, r := range second {
		if !ValidID(r.ID) {
			t.Errorf("fallback id %q does not have the platform shape", r.ID)
		}
		if ClassifyType(r.URL) != r.Type {
			t.Errorf("fallback %s type %q disagrees with its URL", r.ID, r.Type)
		}
	}
}

func TestIsFallbackID(t *testing.T) {
	if !IsFallbackID("q7ixw5acIRc") {
		t.Error("expected q7ixw5acIRc to be a fallback id")
	}
	if IsFallbackID("zzzzzzzzzzz") {
		t.Error("unexpected fallback match")
	}
}

func TestEmbedURL(t *testing.T) {
	want := "https://www.youtube.com/embed/aT3UkaEc-FA?autoplay=1&rel=0&modestbranding=1"
	if got := EmbedURL("aT3UkaEc-FA"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTypeLabel(t *testing.T) {
	if TypeShorts.Label() != "Short" || TypeVideo.Label() != "Video" {
		t.Error("unexpected type labels")
	}
}

func TestResolveType_OnlyLowercases(t *testing.T) {
	tests := map[string]Type{
		"shorts":   TypeShorts,
		"SHORT":    TypeShorts,
		" shorts ": TypeVideo,
		"short\n":  TypeVideo,
		"":         TypeVideo,
	}
	for raw, want := range tests {
		if got := ResolveType(raw); got != want {
			t.Errorf("ResolveType(%q) = %q, want %q", raw, got, want)
		}
	}
}
