package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// LibraryItem is one uploaded media file plus the study materials generated
// from it. Generated-content columns stay null until the pipeline writes all
// of them in a single update.
type LibraryItem struct {
	Base
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title            string    `gorm:"not null" json:"title"`
	OriginalFilename string    `gorm:"not null" json:"original_filename"`
	FileType         string    `gorm:"not null" json:"file_type"`
	SizeBytes        int64     `gorm:"not null" json:"size_bytes"`
	StoragePath      string    `gorm:"not null" json:"storage_path"`
	Status           string    `gorm:"type:varchar(32);not null;index;default:'processing'" json:"status"`

	Transcript     *string        `gorm:"type:text" json:"transcript,omitempty"`
	Summary        *string        `gorm:"type:text" json:"summary,omitempty"`
	Notes          datatypes.JSON `gorm:"type:jsonb" json:"notes,omitempty"`
	Flashcards     datatypes.JSON `gorm:"type:jsonb" json:"flashcards,omitempty"`
	Quizzes        datatypes.JSON `gorm:"type:jsonb" json:"quizzes,omitempty"`
	KeyPoints      pq.StringArray `gorm:"type:text[]" json:"key_points,omitempty"`
	Glossary       datatypes.JSON `gorm:"type:jsonb" json:"glossary,omitempty"`
	ExamQuestions  datatypes.JSON `gorm:"type:jsonb" json:"exam_questions,omitempty"`
	VisualImageURL *string        `gorm:"type:text" json:"visual_image_url,omitempty"`
	ErrorMessage   *string        `gorm:"type:text" json:"error_message,omitempty"`
}

func (LibraryItem) TableName() string {
	return "library_items"
}

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
