package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studyforge/backend/models"
	"github.com/studyforge/backend/repository"
	"github.com/studyforge/backend/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProcessPublisher hands a library item off to the pipeline without waiting
// for the run to finish.
type ProcessPublisher interface {
	PublishProcessRequest(ctx context.Context, libraryID uuid.UUID) error
}

type LibraryService interface {
	Upload(ctx context.Context, userID uuid.UUID, title, originalFilename, contentType string, data []byte) (*models.LibraryItem, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.LibraryItem, error)
	List(ctx context.Context, userID uuid.UUID, page, pageSize int32) ([]*models.LibraryItem, int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	FileURL(ctx context.Context, userID, id uuid.UUID, expiry time.Duration) (string, error)
}

type LibraryServiceImpl struct {
	repo      repository.LibraryRepository
	store     storage.ObjectStore
	publisher ProcessPublisher
	logger    *logrus.Logger
}

func NewLibraryService(repo repository.LibraryRepository, store storage.ObjectStore, publisher ProcessPublisher, logger *logrus.Logger) LibraryService {
	return &LibraryServiceImpl{
		repo:      repo,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Upload stores the blob, creates the record in processing state and enqueues
// a pipeline run. The caller gets the record back as soon as the trigger is
// accepted; completion is only observable by polling the record's status.
func (s *LibraryServiceImpl) Upload(ctx context.Context, userID uuid.UUID, title, originalFilename, contentType string, data []byte) (*models.LibraryItem, error) {
	if title == "" {
		title = originalFilename
	}

	objectName := fmt.Sprintf("%s/%d-%s", userID, time.Now().UnixMilli(), originalFilename)

	if err := s.store.Upload(ctx, objectName, contentType, data); err != nil {
		return nil, &StorageError{Path: objectName, Err: err}
	}

	item := &models.LibraryItem{
		UserID:           userID,
		Title:            title,
		OriginalFilename: originalFilename,
		FileType:         contentType,
		SizeBytes:        int64(len(data)),
		StoragePath:      objectName,
		Status:           models.StatusProcessing,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save library record: %w", err)
	}

	if err := s.publisher.PublishProcessRequest(ctx, item.ID); err != nil {
		// The blob and record exist but nothing will process them; surface
		// that on the record instead of leaving it stuck in processing.
		s.logger.Errorf("failed to enqueue processing for %s: %v", item.ID, err)
		if markErr := s.repo.MarkFailed(ctx, item.ID, "failed to enqueue processing: "+err.Error()); markErr != nil {
			s.logger.Errorf("failed to mark item %s failed: %v", item.ID, markErr)
		}
	}

	return item, nil
}

func (s *LibraryServiceImpl) Get(ctx context.Context, userID, id uuid.UUID) (*models.LibraryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrPermissionDenied
	}
	return item, nil
}

func (s *LibraryServiceImpl) List(ctx context.Context, userID uuid.UUID, page, pageSize int32) ([]*models.LibraryItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.GetByUserIDWithPagination(ctx, userID, page, pageSize)
}

// Delete removes the blob best-effort, then the row. A record that is
// already gone is not an error, and neither is a missing blob.
func (s *LibraryServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if item.UserID != userID {
		return ErrPermissionDenied
	}

	if item.StoragePath != "" {
		if err := s.store.Remove(ctx, item.StoragePath); err != nil {
			s.logger.Warnf("failed to remove blob %s: %v", item.StoragePath, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete library record: %w", err)
	}
	return nil
}

func (s *LibraryServiceImpl) FileURL(ctx context.Context, userID, id uuid.UUID, expiry time.Duration) (string, error) {
	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignedURL(ctx, item.StoragePath, expiry)
}
