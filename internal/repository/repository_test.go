package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/userfiles/internal/db"
	"github.com/templui/userfiles/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })

	require.NoError(t, db.RunMigrations(context.Background(), database.DB, "sqlite"))
	return database
}

func createUser(t *testing.T, repo UserRepository, id, externalID, name string) *model.User {
	t.Helper()

	now := time.Now().UTC()
	user := &model.User{ID: id, ExternalID: externalID, Name: name, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}
