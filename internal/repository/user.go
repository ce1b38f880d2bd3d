package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/userfiles/internal/model"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateExternalID = errors.New("external id already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByExternalID(ctx context.Context, externalID string) (*model.User, error)
	UpdateName(ctx context.Context, id, name string) error
	All(ctx context.Context) ([]*model.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, external_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.ExternalID, user.Name, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		// Check for unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateExternalID
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, external_id, name, created_at, updated_at FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, external_id, name, created_at, updated_at FROM users WHERE external_id = $1`

	err := r.db.GetContext(ctx, user, query, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) UpdateName(ctx context.Context, id, name string) error {
	query := `UPDATE users SET name = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, name, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) All(ctx context.Context) ([]*model.User, error) {
	users := []*model.User{}
	query := `SELECT id, external_id, name, created_at, updated_at FROM users ORDER BY created_at, id`

	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, err
	}

	return users, nil
}
