package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Media is an approved submission. Rows are never updated.
type Media struct {
	ID          uuid.UUID `db:"id"`
	FileID      string    `db:"file_id"`
	Data        []byte    `db:"data"`
	ContentType string    `db:"content_type"`
	CreatedAt   time.Time `db:"created_at"`
}

type MediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{
		db: db,
	}
}

func (r *MediaRepository) Create(ctx context.Context, media *Media) error {
	if media.ID == uuid.Nil {
		media.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, `
	    INSERT INTO media (id, file_id, data, content_type)
		VALUES ($1, $2, $3, $4)
	`,
		media.ID,
		media.FileID,
		media.Data,
		media.ContentType,
	)
	if err != nil {
		return fmt.Errorf("MediaRepository.Create: %w", err)
	}

	return nil
}
