package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vidgallery/vidgallery/internal/database"
	"github.com/vidgallery/vidgallery/internal/gallery"
)

type pgCollection struct {
	db database.DBTX
}

func NewPostgresCollection(db database.DBTX) Collection {
	return &pgCollection{db: db}
}

func (c *pgCollection) List(ctx context.Context) ([]gallery.Record, error) {
	rows, err := c.db.Query(ctx,
		`SELECT video_id, type, title, url, created_at FROM videos ORDER BY created_at ASC, video_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (c *pgCollection) Append(ctx context.Context, rec gallery.Record) (gallery.Record, error) {
	err := c.db.QueryRow(ctx,
		`INSERT INTO videos (video_id, type, title, url) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		rec.ID, string(rec.Type), rec.Title, rec.URL,
	).Scan(&rec.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return gallery.Record{}, fmt.Errorf("insert video %s: %w", rec.ID, gallery.ErrDuplicate)
		}
		return gallery.Record{}, fmt.Errorf("insert video %s: %w", rec.ID, err)
	}
	return rec, nil
}

func (c *pgCollection) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := c.db.Exec(ctx, `DELETE FROM videos WHERE video_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete video %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanRecords(rows pgx.Rows) ([]gallery.Record, error) {
	var records []gallery.Record
	for rows.Next() {
		var r gallery.Record
		var kind string
		if err := rows.Scan(&r.ID, &kind, &r.Title, &r.URL, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		r.Type = gallery.Type(kind)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return records, nil
}
