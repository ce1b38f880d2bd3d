package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/userfiles/internal/db"
	"github.com/templui/userfiles/internal/model"
	"github.com/templui/userfiles/internal/repository"
	"github.com/templui/userfiles/internal/storage/storagetest"
)

type fixture struct {
	db      *sqlx.DB
	users   *UserService
	files   *FileService
	storage *storagetest.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })
	require.NoError(t, db.RunMigrations(context.Background(), database.DB, "sqlite"))

	userRepo := repository.NewUserRepository(database)
	fileRepo := repository.NewFileRepository(database)
	store := storagetest.NewMemory()

	return &fixture{
		db:      database,
		users:   NewUserService(userRepo),
		files:   NewFileService(fileRepo, userRepo, store, 255),
		storage: store,
	}
}

func identity(subject, name string) *model.Identity {
	return &model.Identity{Subject: subject, Name: name, Provider: "github"}
}
