package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studyforge/backend/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LibraryRepository interface {
	Create(ctx context.Context, item *models.LibraryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LibraryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByUserIDWithPagination(ctx context.Context, userID uuid.UUID, page, pageSize int32) ([]*models.LibraryItem, int64, error)
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
	CompleteGeneration(ctx context.Context, id uuid.UUID, transcript string, materials *models.StudyMaterials, imageURL *string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type LibraryRepositoryImpl struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &LibraryRepositoryImpl{db: db}
}

func (r *LibraryRepositoryImpl) Create(ctx context.Context, item *models.LibraryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *LibraryRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.LibraryItem, error) {
	var item models.LibraryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *LibraryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.LibraryItem{}, "id = ?", id).Error
}

func (r *LibraryRepositoryImpl) GetByUserIDWithPagination(ctx context.Context, userID uuid.UUID, page, pageSize int32) ([]*models.LibraryItem, int64, error) {
	var items []*models.LibraryItem
	var total int64

	offset := (page - 1) * pageSize

	err := r.db.WithContext(ctx).Model(&models.LibraryItem{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = r.db.WithContext(ctx).Where("user_id = ?", userID).
		Limit(int(pageSize)).
		Offset(int(offset)).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *LibraryRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	return r.db.WithContext(ctx).Model(&models.LibraryItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMessage,
	}).Error
}

// CompleteGeneration writes the transcript, every generated field and the
// completed status in one update, so readers never observe a partial bundle.
func (r *LibraryRepositoryImpl) CompleteGeneration(ctx context.Context, id uuid.UUID, transcript string, materials *models.StudyMaterials, imageURL *string) error {
	notes, err := json.Marshal(materials.Notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}
	flashcards, err := json.Marshal(materials.Flashcards)
	if err != nil {
		return fmt.Errorf("marshal flashcards: %w", err)
	}
	quizzes, err := json.Marshal(materials.Quizzes)
	if err != nil {
		return fmt.Errorf("marshal quizzes: %w", err)
	}
	glossary, err := json.Marshal(materials.Glossary)
	if err != nil {
		return fmt.Errorf("marshal glossary: %w", err)
	}
	examQuestions, err := json.Marshal(materials.ExamQuestions)
	if err != nil {
		return fmt.Errorf("marshal exam questions: %w", err)
	}

	updates := map[string]interface{}{
		"transcript":       transcript,
		"summary":          materials.Summary,
		"notes":            datatypes.JSON(notes),
		"flashcards":       datatypes.JSON(flashcards),
		"quizzes":          datatypes.JSON(quizzes),
		"key_points":       pq.StringArray(materials.KeyPoints),
		"glossary":         datatypes.JSON(glossary),
		"exam_questions":   datatypes.JSON(examQuestions),
		"visual_image_url": imageURL,
		"error_message":    nil,
		"status":           models.StatusCompleted,
	}

	return r.db.WithContext(ctx).Model(&models.LibraryItem{}).Where("id = ?", id).Updates(updates).Error
}

func (r *LibraryRepositoryImpl) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LibraryItem{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
