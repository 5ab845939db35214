// Package store reads and writes gallery records against the remote
// collection. Reads never fail from the caller's point of view: an empty or
// unreachable collection degrades to the built-in fallback list, and the
// snapshot says which of the two happened.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vidgallery/vidgallery/internal/gallery"
	"github.com/vidgallery/vidgallery/internal/metrics"
	"github.com/vidgallery/vidgallery/internal/validate"
)

const DefaultTimeout = 10 * time.Second

type Source string

const (
	SourceRemote        Source = "remote"
	SourceFallbackEmpty Source = "fallback-empty"
	SourceFallbackError Source = "fallback-error"
)

func (s Source) IsFallback() bool {
	return s != SourceRemote
}

// Snapshot is the record set in collection order, before organizing.
type Snapshot struct {
	Records []gallery.Record
	Source  Source
}

// Authorizer is checked immediately before every mutation.
type Authorizer interface {
	IsAdmin() bool
}

type Client struct {
	coll    Collection
	timeout time.Duration
}

func NewClient(coll Collection, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{coll: coll, timeout: timeout}
}

func (c *Client) LoadAll(ctx context.Context) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	records, err := c.coll.List(ctx)
	if err != nil {
		slog.Error("store: loading videos failed, using fallback", "error", fmt.Errorf("%w: %w", gallery.ErrRemoteRead, err))
		metrics.GalleryLoadsTotal.WithLabelValues(string(SourceFallbackError)).Inc()
		return Snapshot{Records: gallery.FallbackRecords(), Source: SourceFallbackError}
	}
	if len(records) == 0 {
		slog.Info("store: collection is empty, using fallback")
		metrics.GalleryLoadsTotal.WithLabelValues(string(SourceFallbackEmpty)).Inc()
		return Snapshot{Records: gallery.FallbackRecords(), Source: SourceFallbackEmpty}
	}

	for i := range records {
		records[i] = gallery.Normalize(records[i])
	}
	metrics.GalleryLoadsTotal.WithLabelValues(string(SourceRemote)).Inc()
	return Snapshot{Records: records, Source: SourceRemote}
}

func (c *Client) Insert(ctx context.Context, authz Authorizer, rawURL, title string) (gallery.Record, error) {
	if authz == nil || !authz.IsAdmin() {
		metrics.MutationsTotal.WithLabelValues("insert", "unauthorized").Inc()
		return gallery.Record{}, gallery.ErrUnauthorized
	}

	rawURL = strings.TrimSpace(rawURL)
	title = strings.TrimSpace(title)

	if msg := validate.VideoURL(rawURL); msg != "" {
		return gallery.Record{}, invalidInsert(fmt.Errorf("%w: %s", gallery.ErrInvalidInput, msg))
	}
	id, ok := gallery.ExtractID(rawURL)
	if !ok {
		return gallery.Record{}, invalidInsert(gallery.ErrInvalidInput)
	}
	if msg := validate.Title(title); msg != "" {
		return gallery.Record{}, invalidInsert(fmt.Errorf("%w: %s", gallery.ErrInvalidInput, msg))
	}
	if title == "" {
		title = gallery.DefaultTitle(id)
	}

	rec := gallery.Record{
		ID:    id,
		Type:  gallery.ClassifyType(rawURL),
		Title: title,
		URL:   rawURL,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	saved, err := c.coll.Append(ctx, rec)
	if err != nil {
		if errors.Is(err, gallery.ErrDuplicate) {
			metrics.MutationsTotal.WithLabelValues("insert", "duplicate").Inc()
			return gallery.Record{}, err
		}
		slog.Error("store: adding video failed", "video_id", id, "error", err)
		metrics.MutationsTotal.WithLabelValues("insert", "error").Inc()
		return gallery.Record{}, fmt.Errorf("%w: %w", gallery.ErrRemoteWrite, err)
	}

	slog.Info("store: video added", "video_id", saved.ID, "type", saved.Type)
	metrics.MutationsTotal.WithLabelValues("insert", "ok").Inc()
	return saved, nil
}

// DeleteByValueID removes the remote record whose identifier is id. Entries
// that only exist in the fallback list have no remote identity and report
// gallery.ErrNotFound.
func (c *Client) DeleteByValueID(ctx context.Context, authz Authorizer, id string) error {
	if authz == nil || !authz.IsAdmin() {
		metrics.MutationsTotal.WithLabelValues("delete", "unauthorized").Inc()
		return gallery.ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	found, err := c.coll.Delete(ctx, id)
	if err != nil {
		slog.Error("store: deleting video failed", "video_id", id, "error", err)
		metrics.MutationsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("%w: %w", gallery.ErrRemoteWrite, err)
	}
	if !found {
		slog.Info("store: video not in collection, may be a fallback video", "video_id", id, "fallback", gallery.IsFallbackID(id))
		metrics.MutationsTotal.WithLabelValues("delete", "not_found").Inc()
		return gallery.ErrNotFound
	}

	slog.Info("store: video deleted", "video_id", id)
	metrics.MutationsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

func invalidInsert(err error) error {
	metrics.MutationsTotal.WithLabelValues("insert", "invalid").Inc()
	return err
}

// Find looks up one entry for the player page. It reads the same records as
// LoadAll, fallback included, but is not counted as a gallery load.
func (c *Client) Find(ctx context.Context, id string) (gallery.Record, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	records, err := c.coll.List(ctx)
	if err != nil {
		slog.Debug("store: lookup fell back to built-in list", "video_id", id, "error", err)
		records = nil
	}
	if len(records) == 0 {
		records = gallery.FallbackRecords()
	}
	for _, r := range records {
		if r.ID == id {
			return gallery.Normalize(r), true
		}
	}
	return gallery.Record{}, false
}
