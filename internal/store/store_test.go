package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vidgallery/vidgallery/internal/gallery"
	"github.com/vidgallery/vidgallery/internal/metrics"
)

type fakeCollection struct {
	records   []gallery.Record
	listErr   error
	appendErr error
	deleteErr error

	listCalls   int
	appended    []gallery.Record
	deleteCalls []string
}

func (f *fakeCollection) List(ctx context.Context) ([]gallery.Record, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]gallery.Record(nil), f.records...), nil
}

func (f *fakeCollection) Append(ctx context.Context, rec gallery.Record) (gallery.Record, error) {
	if f.appendErr != nil {
		return gallery.Record{}, f.appendErr
	}
	if _, ok := ctx.Deadline(); !ok {
		return gallery.Record{}, errors.New("expected a deadline on remote calls")
	}
	rec.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.appended = append(f.appended, rec)
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeCollection) Delete(ctx context.Context, id string) (bool, error) {
	f.deleteCalls = append(f.deleteCalls, id)
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type staticAuthz bool

func (a staticAuthz) IsAdmin() bool { return bool(a) }

const (
	admin    = staticAuthz(true)
	notAdmin = staticAuthz(false)
)

func recordIDs(records []gallery.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestLoadAll_Remote(t *testing.T) {
	coll := &fakeCollection{records: []gallery.Record{
		{ID: "u7EmRd0GLhQ", Type: gallery.TypeShorts, Title: "S"},
		{ID: "aT3UkaEc-FA", Type: "", Title: ""},
	}}
	c := NewClient(coll, time.Second)

	snap := c.LoadAll(context.Background())

	if snap.Source != SourceRemote {
		t.Fatalf("expected remote source, got %s", snap.Source)
	}
	if diff := cmp.Diff([]string{"u7EmRd0GLhQ", "aT3UkaEc-FA"}, recordIDs(snap.Records)); diff != "" {
		t.Errorf("records should keep collection order (-want +got):\n%s", diff)
	}
	if snap.Records[1].Type != gallery.TypeVideo || snap.Records[1].Title != "Video aT3UkaEc-FA" {
		t.Errorf("expected normalized defaults, got %+v", snap.Records[1])
	}
}

func TestLoadAll_EmptyUsesFallback(t *testing.T) {
	c := NewClient(&fakeCollection{}, time.Second)

	snap := c.LoadAll(context.Background())

	if snap.Source != SourceFallbackEmpty {
		t.Errorf("expected fallback-empty, got %s", snap.Source)
	}
	if diff := cmp.Diff(gallery.FallbackRecords(), snap.Records); diff != "" {
		t.Errorf("expected unmodified fallback list (-want +got):\n%s", diff)
	}
}

func TestLoadAll_ErrorUsesFallback(t *testing.T) {
	c := NewClient(&fakeCollection{listErr: errors.New("permission denied")}, time.Second)

	snap := c.LoadAll(context.Background())

	if snap.Source != SourceFallbackError {
		t.Errorf("expected fallback-error, got %s", snap.Source)
	}
	if !snap.Source.IsFallback() {
		t.Error("expected IsFallback to be true")
	}
	if diff := cmp.Diff(gallery.FallbackRecords(), snap.Records); diff != "" {
		t.Errorf("expected unmodified fallback list (-want +got):\n%s", diff)
	}
}

func TestInsert_Unauthorized_NoRemoteCall(t *testing.T) {
	coll := &fakeCollection{}
	c := NewClient(coll, time.Second)

	for _, authz := range []Authorizer{notAdmin, nil} {
		_, err := c.Insert(context.Background(), authz, "https://youtu.be/aT3UkaEc-FA", "")
		if !errors.Is(err, gallery.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	}
	if len(coll.appended) != 0 {
		t.Errorf("expected no append, got %d", len(coll.appended))
	}
}

func TestInsert_InvalidURL(t *testing.T) {
	coll := &fakeCollection{}
	c := NewClient(coll, time.Second)

	_, err := c.Insert(context.Background(), admin, "https://example.com/x", "Title")
	if !errors.Is(err, gallery.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(coll.appended) != 0 {
		t.Error("expected no append for invalid input")
	}
}

func TestInsert_Shorts(t *testing.T) {
	coll := &fakeCollection{}
	c := NewClient(coll, time.Second)

	rec, err := c.Insert(context.Background(), admin, "  https://youtube.com/shorts/u7EmRd0GLhQ  ", "  My Short ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "u7EmRd0GLhQ" || rec.Type != gallery.TypeShorts || rec.Title != "My Short" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.URL != "https://youtube.com/shorts/u7EmRd0GLhQ" {
		t.Errorf("expected trimmed URL, got %q", rec.URL)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected store-stamped CreatedAt")
	}
}

func TestInsert_DefaultTitle(t *testing.T) {
	coll := &fakeCollection{}
	c := NewClient(coll, time.Second)

	rec, err := c.Insert(context.Background(), admin, "https://www.youtube.com/watch?v=H2DdT9jxkq4", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Title != "Video H2DdT9jxkq4" || rec.Type != gallery.TypeVideo {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestInsert_RemoteWriteError(t *testing.T) {
	cause := errors.New("connection reset")
	c := NewClient(&fakeCollection{appendErr: cause}, time.Second)

	_, err := c.Insert(context.Background(), admin, "https://youtu.be/aT3UkaEc-FA", "")
	if !errors.Is(err, gallery.ErrRemoteWrite) {
		t.Fatalf("expected ErrRemoteWrite, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to stay wrapped")
	}
}

func TestInsert_Duplicate(t *testing.T) {
	c := NewClient(&fakeCollection{appendErr: gallery.ErrDuplicate}, time.Second)

	_, err := c.Insert(context.Background(), admin, "https://youtu.be/aT3UkaEc-FA", "")
	if !errors.Is(err, gallery.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if errors.Is(err, gallery.ErrRemoteWrite) {
		t.Error("duplicates should not be reported as write failures")
	}
}

func TestDeleteByValueID_Found(t *testing.T) {
	coll := &fakeCollection{records: []gallery.Record{{ID: "H2DdT9jxkq4"}, {ID: "g9WxDb2LtkQ"}}}
	c := NewClient(coll, time.Second)

	if err := c.DeleteByValueID(context.Background(), admin, "g9WxDb2LtkQ"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"H2DdT9jxkq4"}, recordIDs(coll.records)); diff != "" {
		t.Errorf("unexpected remaining records (-want +got):\n%s", diff)
	}
}

func TestDeleteByValueID_FallbackOnlyIsNotFound(t *testing.T) {
	coll := &fakeCollection{records: []gallery.Record{{ID: "H2DdT9jxkq4"}}}
	c := NewClient(coll, time.Second)

	err := c.DeleteByValueID(context.Background(), admin, "aT3UkaEc-FA")
	if !errors.Is(err, gallery.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(coll.records) != 1 {
		t.Error("expected nothing deleted")
	}
}

func TestDeleteByValueID_Unauthorized(t *testing.T) {
	coll := &fakeCollection{records: []gallery.Record{{ID: "H2DdT9jxkq4"}}}
	c := NewClient(coll, time.Second)

	err := c.DeleteByValueID(context.Background(), notAdmin, "H2DdT9jxkq4")
	if !errors.Is(err, gallery.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(coll.deleteCalls) != 0 {
		t.Error("expected no remote call without admin")
	}
}

func TestDeleteByValueID_RemoteError(t *testing.T) {
	c := NewClient(&fakeCollection{deleteErr: errors.New("timeout")}, time.Second)

	err := c.DeleteByValueID(context.Background(), admin, "H2DdT9jxkq4")
	if !errors.Is(err, gallery.ErrRemoteWrite) {
		t.Fatalf("expected ErrRemoteWrite, got %v", err)
	}
}

func TestInsert_EveryInvalidInputIsCounted(t *testing.T) {
	longTitle := make([]byte, 201)
	for i := range longTitle {
		longTitle[i] = 'a'
	}

	tests := []struct {
		name  string
		url   string
		title string
	}{
		{"empty url", "", "Title"},
		{"no id", "https://example.com/x", "Title"},
		{"title too long", "https://youtu.be/aT3UkaEc-FA", string(longTitle)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := metrics.MutationsTotal.WithLabelValues("insert", "invalid")
			before := testutil.ToFloat64(counter)

			_, err := NewClient(&fakeCollection{}, time.Second).Insert(context.Background(), admin, tt.url, tt.title)
			if !errors.Is(err, gallery.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("invalid counter = %v, want %v", got, before+1)
			}
		})
	}
}

func TestFind(t *testing.T) {
	coll := &fakeCollection{records: []gallery.Record{
		{ID: "aT3UkaEc-FA", Type: "SHORTS", Title: ""},
	}}
	c := NewClient(coll, time.Second)

	rec, ok := c.Find(context.Background(), "aT3UkaEc-FA")
	if !ok {
		t.Fatal("expected record to be found")
	}
	if rec.Type != gallery.TypeShorts || rec.Title != gallery.DefaultTitle("aT3UkaEc-FA") {
		t.Errorf("expected normalized record, got %+v", rec)
	}
	if _, ok := c.Find(context.Background(), "zzzzzzzzzzz"); ok {
		t.Error("expected unknown id to be missing")
	}
}

func TestFind_UsesFallbackWithoutCountingLoads(t *testing.T) {
	fallbackID := gallery.FallbackRecords()[0].ID
	sources := []string{string(SourceRemote), string(SourceFallbackEmpty), string(SourceFallbackError)}
	before := make([]float64, len(sources))
	for i, s := range sources {
		before[i] = testutil.ToFloat64(metrics.GalleryLoadsTotal.WithLabelValues(s))
	}

	for _, coll := range []*fakeCollection{{}, {listErr: errors.New("unreachable")}} {
		if _, ok := NewClient(coll, time.Second).Find(context.Background(), fallbackID); !ok {
			t.Errorf("expected fallback entry %s to be found", fallbackID)
		}
	}

	for i, s := range sources {
		if got := testutil.ToFloat64(metrics.GalleryLoadsTotal.WithLabelValues(s)); got != before[i] {
			t.Errorf("loads_total{source=%s} changed from %v to %v", s, before[i], got)
		}
	}
}
