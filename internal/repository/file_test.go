package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/userfiles/internal/model"
)

func TestFileRepository_CreateAndByID(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	createUser(t, NewUserRepository(database), "u1", "github|1", "Alice")
	repo := NewFileRepository(database)

	file := &model.File{ID: "f1", UserID: "u1", StorageID: "uploads/A", FileName: "report.pdf", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, file))

	got, err := repo.ByID(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "uploads/A", got.StorageID)
	assert.Equal(t, "report.pdf", got.FileName)
	assert.WithinDuration(t, file.CreatedAt, got.CreatedAt, time.Second)
	assert.Empty(t, got.URL)
}

func TestFileRepository_ByUserIDScopesAndOrders(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	users := NewUserRepository(database)
	createUser(t, users, "u1", "github|1", "Alice")
	createUser(t, users, "u2", "github|2", "Bob")
	repo := NewFileRepository(database)

	base := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &model.File{ID: "old", UserID: "u1", StorageID: "uploads/1", FileName: "a.txt", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &model.File{ID: "new", UserID: "u1", StorageID: "uploads/2", FileName: "b.txt", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, &model.File{ID: "other", UserID: "u2", StorageID: "uploads/3", FileName: "c.txt", CreatedAt: base}))

	files, err := repo.ByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "new", files[0].ID)
	assert.Equal(t, "old", files[1].ID)

	files, err = repo.ByUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestFileRepository_Delete(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	createUser(t, NewUserRepository(database), "u1", "github|1", "Alice")
	repo := NewFileRepository(database)
	require.NoError(t, repo.Create(ctx, &model.File{ID: "f1", UserID: "u1", StorageID: "uploads/A", FileName: "a.txt", CreatedAt: time.Now().UTC()}))

	require.NoError(t, repo.Delete(ctx, "f1"))

	_, err := repo.ByID(ctx, "f1")
	assert.ErrorIs(t, err, ErrFileNotFound)

	err = repo.Delete(ctx, "f1")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestFileRepository_CreateError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewFileRepository(sqlx.NewDb(mockDB, "sqlmock"))

	mock.ExpectExec(`INSERT INTO files`).
		WithArgs("f1", "u1", "uploads/A", "a.txt", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	err = repo.Create(context.Background(), &model.File{ID: "f1", UserID: "u1", StorageID: "uploads/A", FileName: "a.txt"})
	assert.EqualError(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}
