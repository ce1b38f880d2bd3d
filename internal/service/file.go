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
	"github.com/templui/userfiles/internal/storage"
	"github.com/templui/userfiles/internal/validation"
	"golang.org/x/sync/errgroup"
)

// urlConcurrency bounds parallel retrieval URL lookups per listing
const urlConcurrency = 8

type FileService struct {
	fileRepo       repository.FileRepository
	userRepo       repository.UserRepository
	storage        storage.Storage
	maxFileNameLen int
	now            func() time.Time
}

func NewFileService(fileRepo repository.FileRepository, userRepo repository.UserRepository, storage storage.Storage, maxFileNameLen int) *FileService {
	return &FileService{
		fileRepo:       fileRepo,
		userRepo:       userRepo,
		storage:        storage,
		maxFileNameLen: maxFileNameLen,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// GenerateUploadURL asks storage for a single-use upload target.
// Nothing is recorded until SaveMetadata confirms the upload.
func (s *FileService) GenerateUploadURL(ctx context.Context, identity *model.Identity) (*model.UploadTarget, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	target, err := s.storage.UploadTarget(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload url: %w", err)
	}

	slog.Debug("upload target issued", "external_id", identity.Subject, "storage_id", target.StorageID)

	return target, nil
}

// SaveMetadata records an uploaded blob as a file owned by the caller.
// The storage handle is trusted: nothing checks that an object exists under it.
func (s *FileService) SaveMetadata(ctx context.Context, identity *model.Identity, storageID, fileName string) (string, error) {
	if identity == nil {
		return "", ErrNotAuthenticated
	}

	if !storage.ValidStorageID(storageID) {
		return "", fmt.Errorf("%w: malformed storage id", ErrInvalidInput)
	}

	fileName, err := validation.FileName(fileName, s.maxFileNameLen)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	user, err := s.userRepo.ByExternalID(ctx, identity.Subject)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	file := &model.File{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		StorageID: storageID,
		FileName:  fileName,
		CreatedAt: s.now(),
	}

	err = s.fileRepo.Create(ctx, file)
	if err != nil {
		return "", fmt.Errorf("failed to create file record: %w", err)
	}

	slog.Info("file saved", "file_id", file.ID, "user_id", user.ID, "storage_id", storageID)

	return file.ID, nil
}

// CurrentUserFiles lists the caller's files, newest first, with retrieval URLs.
// A caller without a user record gets an empty list rather than an error.
func (s *FileService) CurrentUserFiles(ctx context.Context, identity *model.Identity) ([]*model.File, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	user, err := s.userRepo.ByExternalID(ctx, identity.Subject)
	if errors.Is(err, repository.ErrUserNotFound) {
		return []*model.File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	files, err := s.fileRepo.ByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get files: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(urlConcurrency)
	for _, file := range files {
		g.Go(func() error {
			file.URL = s.url(gctx, file)
			return nil
		})
	}
	// url never fails: an unresolvable blob leaves the URL empty
	g.Wait()

	return files, nil
}

// url resolves a retrieval URL, or "" when storage cannot produce one
func (s *FileService) url(ctx context.Context, file *model.File) string {
	url, err := s.storage.URL(ctx, file.StorageID)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			slog.Warn("failed to resolve file url", "file_id", file.ID, "storage_id", file.StorageID, "error", err)
		}
		return ""
	}
	return url
}

// Delete removes one of the caller's files: the blob first, then the record.
// If the blob cannot be deleted the record is left alone so the call can be
// repeated. If the record cannot be deleted after the blob is gone, the record
// dangles and lists without a URL.
func (s *FileService) Delete(ctx context.Context, identity *model.Identity, fileID string) error {
	if identity == nil {
		return ErrNotAuthenticated
	}

	user, err := s.userRepo.ByExternalID(ctx, identity.Subject)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	file, err := s.fileRepo.ByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	if file.UserID != user.ID {
		slog.Warn("file delete denied", "file_id", file.ID, "owner_id", file.UserID, "user_id", user.ID)
		return ErrUnauthorized
	}

	err = s.storage.Delete(ctx, file.StorageID)
	if err != nil {
		return fmt.Errorf("failed to delete file from storage: %w", err)
	}

	err = s.fileRepo.Delete(ctx, file.ID)
	if errors.Is(err, repository.ErrFileNotFound) {
		// a concurrent delete of the same file won the race
		return err
	}
	if err != nil {
		slog.Error("file record left without blob", "file_id", file.ID, "storage_id", file.StorageID, "error", err)
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	slog.Info("file deleted", "file_id", file.ID, "user_id", user.ID)

	return nil
}
