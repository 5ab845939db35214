//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vidgallery/vidgallery/internal/database"
	"github.com/vidgallery/vidgallery/internal/gallery"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("gallery"),
		postgres.WithUsername("gallery"),
		postgres.WithPassword("gallery"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Connect(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(connStr))
	// Running again must be a no-op.
	require.NoError(t, db.Migrate(connStr))
	return db
}

func TestPostgresCollectionIntegration(t *testing.T) {
	db := setupTestDB(t)
	coll := NewPostgresCollection(db.Pool)
	ctx := context.Background()

	records, err := coll.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	first, err := coll.Append(ctx, gallery.Record{ID: "dQw4w9WgXcQ", Type: gallery.TypeVideo, Title: "First", URL: "https://youtu.be/dQw4w9WgXcQ"})
	require.NoError(t, err)
	assert.False(t, first.CreatedAt.IsZero(), "store assigns CreatedAt")

	_, err = coll.Append(ctx, gallery.Record{ID: "aqz-KE-bpKQ", Type: gallery.TypeShorts, Title: "Second", URL: "https://youtube.com/shorts/aqz-KE-bpKQ"})
	require.NoError(t, err)

	_, err = coll.Append(ctx, gallery.Record{ID: "dQw4w9WgXcQ", Type: gallery.TypeVideo, Title: "Again", URL: "https://youtu.be/dQw4w9WgXcQ"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gallery.ErrDuplicate), "got %v", err)

	records, err = coll.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "dQw4w9WgXcQ", records[0].ID)
	assert.Equal(t, gallery.TypeShorts, records[1].Type)

	deleted, err := coll.Delete(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = coll.Delete(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestClientAgainstPostgresIntegration(t *testing.T) {
	db := setupTestDB(t)
	client := NewClient(NewPostgresCollection(db.Pool), 5*time.Second)
	ctx := context.Background()

	snap := client.LoadAll(ctx)
	assert.Equal(t, SourceFallbackEmpty, snap.Source)

	_, err := client.Insert(ctx, staticAuthz(true), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "Remote")
	require.NoError(t, err)

	snap = client.LoadAll(ctx)
	assert.Equal(t, SourceRemote, snap.Source)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "Remote", snap.Records[0].Title)

	require.NoError(t, client.DeleteByValueID(ctx, staticAuthz(true), "dQw4w9WgXcQ"))
}
