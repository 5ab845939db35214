package store

import (
	"context"

	"github.com/vidgallery/vidgallery/internal/gallery"
)

// Collection is the remote "videos" document collection. Records are keyed by
// their video identifier.
type Collection interface {
	// List returns every record ordered by CreatedAt ascending.
	List(ctx context.Context) ([]gallery.Record, error)

	// Append stores rec and returns it with the store-assigned CreatedAt.
	// An id that is already present yields gallery.ErrDuplicate.
	Append(ctx context.Context, rec gallery.Record) (gallery.Record, error)

	// Delete removes the record keyed by id and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
