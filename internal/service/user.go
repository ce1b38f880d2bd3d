package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/userfiles/internal/model"
	"github.com/templui/userfiles/internal/repository"
	"github.com/templui/userfiles/internal/validation"
)

type UserService struct {
	userRepository repository.UserRepository
	now            func() time.Time
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Ensure returns the user record for the identity, creating it on first
// sight and patching the name whenever the provider's claim has changed.
func (s *UserService) Ensure(ctx context.Context, identity *model.Identity) (*model.User, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	name := claimName(identity)

	user, err := s.userRepository.ByExternalID(ctx, identity.Subject)
	if errors.Is(err, repository.ErrUserNotFound) {
		return s.create(ctx, identity, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.syncName(ctx, user, name)
}

// syncName patches the stored name when the claim differs
func (s *UserService) syncName(ctx context.Context, user *model.User, name string) (*model.User, error) {
	if user.Name == name {
		return user, nil
	}

	err := s.userRepository.UpdateName(ctx, user.ID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to update user name: %w", err)
	}

	slog.Info("user name updated from identity claims", "user_id", user.ID, "external_id", user.ExternalID)

	return s.userRepository.ByID(ctx, user.ID)
}

func (s *UserService) create(ctx context.Context, identity *model.Identity, name string) (*model.User, error) {
	now := s.now()
	user := &model.User{
		ID:         uuid.New().String(),
		ExternalID: identity.Subject,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateExternalID) {
		// A concurrent request provisioned the same identity first
		existing, getErr := s.userRepository.ByExternalID(ctx, identity.Subject)
		if getErr != nil {
			return nil, fmt.Errorf("failed to get user: %w", getErr)
		}
		return s.syncName(ctx, existing, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "user_id", user.ID, "external_id", user.ExternalID, "provider", identity.Provider)

	return user, nil
}

// ByExternalID looks a user up by identity provider subject
func (s *UserService) ByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	return s.userRepository.ByExternalID(ctx, externalID)
}

// All returns every user. There is no paging and no authorization.
func (s *UserService) All(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Current returns the caller's user record, or nil for an anonymous caller.
// An identity without a record is reported as ErrMissingUserRecord.
func (s *UserService) Current(ctx context.Context, identity *model.Identity) (*model.User, error) {
	if identity == nil {
		return nil, nil
	}

	user, err := s.userRepository.ByExternalID(ctx, identity.Subject)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrMissingUserRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// RequireCurrent is Current for callers that must be signed in.
func (s *UserService) RequireCurrent(ctx context.Context, identity *model.Identity) (*model.User, error) {
	user, err := s.Current(ctx, identity)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return user, nil
}

func claimName(identity *model.Identity) string {
	name := validation.NormalizeName(identity.Name)
	if name == "" {
		return model.DefaultUserName
	}
	return name
}
