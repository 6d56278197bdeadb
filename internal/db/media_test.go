package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertMediaQuery = `(?s)^\s*INSERT\s+INTO\s+media\s*\(id,\s*file_id,\s*data,\s*content_type\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`

func newRepoWithMock(t *testing.T) (*MediaRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewMediaRepository(sqlx.NewDb(conn, "postgres")), mock
}

func TestMediaRepository_Create_AssignsID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(insertMediaQuery).
		WithArgs(sqlmock.AnyArg(), "file-1", []byte("jpeg"), "image/jpeg").
		WillReturnResult(sqlmock.NewResult(0, 1))

	media := &Media{FileID: "file-1", Data: []byte("jpeg"), ContentType: "image/jpeg"}
	err := repo.Create(context.Background(), media)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, media.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepository_Create_KeepsExistingID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectExec(insertMediaQuery).
		WithArgs(id, "file-2", []byte("mp4"), "video/mp4").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &Media{ID: id, FileID: "file-2", Data: []byte("mp4"), ContentType: "video/mp4"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepository_Create_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	dbErr := errors.New("connection reset")

	mock.ExpectExec(insertMediaQuery).
		WillReturnError(dbErr)

	err := repo.Create(context.Background(), &Media{FileID: "file-3", Data: []byte("x"), ContentType: "image/jpeg"})

	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "MediaRepository.Create")
}
