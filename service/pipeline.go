package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studyforge/backend/metrics"
	"github.com/studyforge/backend/models"
	"github.com/studyforge/backend/repository"
	"github.com/studyforge/backend/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Pipeline sequences one full study-material generation run for a library
// item: load record, download media, transcribe, generate the bundle,
// generate an image (best-effort), persist everything in one update.
//
// Every external call is attempted exactly once. Re-running the pipeline for
// an already completed item regenerates and overwrites all content.
type Pipeline struct {
	repo        repository.LibraryRepository
	store       storage.ObjectStore
	transcriber Transcriber
	generator   MaterialGenerator
	illustrator Illustrator
	logger      *logrus.Logger
}

func NewPipeline(
	repo repository.LibraryRepository,
	store storage.ObjectStore,
	transcriber Transcriber,
	generator MaterialGenerator,
	illustrator Illustrator,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		repo:        repo,
		store:       store,
		transcriber: transcriber,
		generator:   generator,
		illustrator: illustrator,
		logger:      logger,
	}
}

// Run executes the pipeline for one library item. On success the record gets
// exactly one mutation: transcript, all generated fields, image reference and
// completed status in a single update. On any fatal error the record is
// marked failed with the error message, generated fields untouched.
func (p *Pipeline) Run(ctx context.Context, libraryID uuid.UUID) error {
	item, err := p.repo.GetByID(ctx, libraryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordPipelineRun("not_found")
			return ErrNotFound
		}
		metrics.RecordPipelineRun("failed")
		return fmt.Errorf("failed to load library item: %w", err)
	}

	p.logger.Infof("pipeline started: id=%s title=%q path=%s", item.ID, item.Title, item.StoragePath)

	data, err := p.downloadMedia(ctx, item)
	if err != nil {
		return p.fail(ctx, item.ID, err)
	}

	transcript, err := p.transcribe(ctx, item, data)
	if err != nil {
		return p.fail(ctx, item.ID, err)
	}

	materials, err := p.generateMaterials(ctx, transcript)
	if err != nil {
		return p.fail(ctx, item.ID, err)
	}

	imageURL := p.generateImage(ctx, materials.Summary)

	start := time.Now()
	if err := p.repo.CompleteGeneration(ctx, item.ID, transcript, materials, imageURL); err != nil {
		return p.fail(ctx, item.ID, &PersistError{Err: err})
	}
	metrics.ObservePipelineStage("persist", time.Since(start))

	metrics.RecordPipelineRun("completed")
	p.logger.Infof("pipeline completed: id=%s flashcards=%d quizzes=%d", item.ID, len(materials.Flashcards), len(materials.Quizzes))
	return nil
}

func (p *Pipeline) downloadMedia(ctx context.Context, item *models.LibraryItem) ([]byte, error) {
	start := time.Now()
	data, err := p.store.Download(ctx, item.StoragePath)
	if err != nil {
		return nil, &StorageError{Path: item.StoragePath, Err: err}
	}
	metrics.ObservePipelineStage("download", time.Since(start))
	return data, nil
}

func (p *Pipeline) transcribe(ctx context.Context, item *models.LibraryItem, data []byte) (string, error) {
	start := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, item.OriginalFilename, data)
	if err != nil {
		return "", err
	}
	metrics.ObservePipelineStage("transcribe", time.Since(start))
	p.logger.Infof("transcription done: id=%s chars=%d", item.ID, len(transcript))
	return transcript, nil
}

func (p *Pipeline) generateMaterials(ctx context.Context, transcript string) (*models.StudyMaterials, error) {
	start := time.Now()
	materials, err := p.generator.Generate(ctx, transcript)
	if err != nil {
		return nil, err
	}
	metrics.ObservePipelineStage("generate", time.Since(start))
	return materials, nil
}

// generateImage is the only best-effort stage: any failure, or a response
// without an image, yields a nil reference and the pipeline carries on.
func (p *Pipeline) generateImage(ctx context.Context, summary string) *string {
	start := time.Now()
	url, err := p.illustrator.Illustrate(ctx, summary)
	if err != nil {
		p.logger.Warnf("image generation skipped: %v", err)
		return nil
	}
	metrics.ObservePipelineStage("illustrate", time.Since(start))
	if url == "" {
		return nil
	}
	return &url
}

func (p *Pipeline) fail(ctx context.Context, id uuid.UUID, err error) error {
	p.logger.Errorf("pipeline failed: id=%s: %v", id, err)
	metrics.RecordPipelineRun("failed")
	if markErr := p.repo.MarkFailed(ctx, id, err.Error()); markErr != nil {
		p.logger.Errorf("failed to mark item %s failed: %v", id, markErr)
	}
	return err
}
